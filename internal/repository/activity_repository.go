package repository

import (
	"time"

	"github.com/google/uuid"

	"schedule-service/internal/model"
	"schedule-service/internal/store"
)

// activityLimit bounds the recent-activity feed.
const activityLimit = 50

type ActivityRepository struct {
	store *store.Store
}

func NewActivityRepository(s *store.Store) *ActivityRepository {
	return &ActivityRepository{store: s}
}

func (r *ActivityRepository) List() []model.Activity {
	var out []model.Activity
	r.store.View(func(d *store.Data) {
		out = append(out, d.Activity...)
	})
	return out
}

// Record prepends an activity entry, keeping the newest activityLimit.
func (r *ActivityRepository) Record(user, action, task string) error {
	return r.store.Update(func(d *store.Data) error {
		entry := model.Activity{
			ID:        uuid.NewString(),
			User:      user,
			Action:    action,
			Task:      task,
			Timestamp: time.Now(),
		}
		d.Activity = append([]model.Activity{entry}, d.Activity...)
		if len(d.Activity) > activityLimit {
			d.Activity = d.Activity[:activityLimit]
		}
		return nil
	})
}
