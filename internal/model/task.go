package model

import (
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Terminal reports whether the task is in a state the reminder
// scheduler no longer cares about.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusCancelled
}

// Task is a field work order (installation, measurement, ...).
type Task struct {
	ID        string     `json:"id"`
	Number    string     `json:"number"`
	Plate     string     `json:"plate"`
	Staff     string     `json:"staff"`
	Date      string     `json:"date"` // YYYY-MM-DD
	Time      string     `json:"time"` // "19:00-22:00"
	Location  string     `json:"location"`
	Service   string     `json:"service"`
	Note      string     `json:"note"`
	Color     string     `json:"color"`
	Type      string     `json:"type"`
	Status    TaskStatus `json:"status"`
	CreatedBy string     `json:"createdBy,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// StartsAt resolves the scheduled start from Date plus the first segment
// of the Time window, in local time.
func (t Task) StartsAt() (time.Time, error) {
	start := t.Time
	if idx := strings.Index(start, "-"); idx >= 0 {
		start = start[:idx]
	}
	start = strings.TrimSpace(start)
	if t.Date == "" || start == "" {
		return time.Time{}, fmt.Errorf("task %s has no schedule", t.Number)
	}
	return time.ParseInLocation("2006-01-02 15:04", t.Date+" "+start, time.Local)
}
