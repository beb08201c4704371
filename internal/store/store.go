package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"schedule-service/internal/model"
)

// Data is the whole persisted document. Everything the service knows
// lives in this one structure; there are no transactions beyond the
// store's own write lock.
type Data struct {
	Users         []model.User         `json:"users"`
	Staff         []model.Staff        `json:"staff"`
	Services      []model.ServiceItem  `json:"services"`
	Tasks         []model.Task         `json:"tasks"`
	Comments      []model.Comment      `json:"comments"`
	ChatMessages  []model.ChatMessage  `json:"chatMessages"`
	Notifications []model.Notification `json:"notifications"`
	Activity      []model.Activity     `json:"activity"`
	TaskVersions  []model.TaskVersion  `json:"taskVersions"`
}

// Store serializes every read and write of the document. All mutation
// goes through Update, which is the single write path; concurrent
// read-modify-write from handlers, the websocket layer and the
// scheduler therefore cannot interleave.
type Store struct {
	path   string
	logger *zap.Logger

	mu   sync.RWMutex
	data *Data
}

// Open loads the document at path, seeding a default document when the
// file does not exist yet.
func Open(path string, logger *zap.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var data Data
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("parse store file %s: %w", path, err)
		}
		s.data = &data
	case os.IsNotExist(err):
		s.data = seed()
		if err := s.persist(); err != nil {
			return nil, err
		}
		logger.Info("seeded new data store", zap.String("path", path))
	default:
		return nil, fmt.Errorf("read store file %s: %w", path, err)
	}

	return s, nil
}

// View runs fn with shared read access to the document. fn must not
// mutate the document or retain references past the call; copy out
// anything that needs to live longer.
func (s *Store) View(fn func(d *Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// Update runs fn with exclusive access and persists the document when
// fn succeeds. When fn returns an error nothing is written.
func (s *Store) Update(fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.data); err != nil {
		return err
	}
	return s.persist()
}

// persist writes the document atomically: temp file then rename.
// Callers must hold at least a read lock.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".store-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close store file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func seed() *Data {
	now := time.Now()

	hash, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)

	return &Data{
		Users: []model.User{
			{
				ID:           uuid.New(),
				Username:     "admin",
				Role:         "admin",
				PasswordHash: string(hash),
				CreatedAt:    now,
			},
		},
		Services: []model.ServiceItem{
			{ID: uuid.NewString(), Name: "installation", CreatedAt: now},
			{ID: uuid.NewString(), Name: "measurement", CreatedAt: now},
			{ID: uuid.NewString(), Name: "repair", CreatedAt: now},
		},
	}
}
