package repository

import (
	"github.com/google/uuid"

	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

type UserRepository struct {
	store *store.Store
}

func NewUserRepository(s *store.Store) *UserRepository {
	return &UserRepository{store: s}
}

func (r *UserRepository) List() []model.User {
	var users []model.User
	r.store.View(func(d *store.Data) {
		users = append(users, d.Users...)
	})
	return users
}

func (r *UserRepository) FindByUsername(username string) (model.User, error) {
	var (
		user  model.User
		found bool
	)
	r.store.View(func(d *store.Data) {
		for _, u := range d.Users {
			if u.Username == username {
				user = u
				found = true
				return
			}
		}
	})
	if !found {
		return model.User{}, ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) FindByID(id uuid.UUID) (model.User, error) {
	var (
		user  model.User
		found bool
	)
	r.store.View(func(d *store.Data) {
		for _, u := range d.Users {
			if u.ID == id {
				user = u
				found = true
				return
			}
		}
	})
	if !found {
		return model.User{}, ErrNotFound
	}
	return user, nil
}
