package repository

import (
	"time"

	"github.com/google/uuid"

	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

// CatalogRepository covers the two small lookup catalogs: staff and
// offered services.
type CatalogRepository struct {
	store *store.Store
}

func NewCatalogRepository(s *store.Store) *CatalogRepository {
	return &CatalogRepository{store: s}
}

func (r *CatalogRepository) ListStaff() []model.Staff {
	var out []model.Staff
	r.store.View(func(d *store.Data) {
		out = append(out, d.Staff...)
	})
	return out
}

func (r *CatalogRepository) AddStaff(name, phone string) (model.Staff, error) {
	staff := model.Staff{
		ID:        uuid.NewString(),
		Name:      name,
		Phone:     phone,
		CreatedAt: time.Now(),
	}
	err := r.store.Update(func(d *store.Data) error {
		d.Staff = append(d.Staff, staff)
		return nil
	})
	return staff, err
}

func (r *CatalogRepository) DeleteStaff(id string) error {
	return r.store.Update(func(d *store.Data) error {
		for i, s := range d.Staff {
			if s.ID == id {
				d.Staff = append(d.Staff[:i], d.Staff[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (r *CatalogRepository) ListServices() []model.ServiceItem {
	var out []model.ServiceItem
	r.store.View(func(d *store.Data) {
		out = append(out, d.Services...)
	})
	return out
}

func (r *CatalogRepository) AddService(name string) (model.ServiceItem, error) {
	item := model.ServiceItem{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	err := r.store.Update(func(d *store.Data) error {
		d.Services = append(d.Services, item)
		return nil
	})
	return item, err
}

func (r *CatalogRepository) DeleteService(id string) error {
	return r.store.Update(func(d *store.Data) error {
		for i, s := range d.Services {
			if s.ID == id {
				d.Services = append(d.Services[:i], d.Services[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
