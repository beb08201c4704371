package repository

import (
	"sort"

	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

type CommentRepository struct {
	store *store.Store
}

func NewCommentRepository(s *store.Store) *CommentRepository {
	return &CommentRepository{store: s}
}

func (r *CommentRepository) ListByTask(taskID string) []model.Comment {
	var out []model.Comment
	r.store.View(func(d *store.Data) {
		for _, c := range d.Comments {
			if c.TaskID == taskID {
				out = append(out, c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (r *CommentRepository) Append(c model.Comment) error {
	return r.store.Update(func(d *store.Data) error {
		d.Comments = append(d.Comments, c)
		return nil
	})
}

// Delete removes the comment when it belongs to the given user.
func (r *CommentRepository) Delete(id string, userID string) error {
	return r.store.Update(func(d *store.Data) error {
		for i, c := range d.Comments {
			if c.ID == id && c.UserID.String() == userID {
				d.Comments = append(d.Comments[:i], d.Comments[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}
