package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"iqtest-service/internal/models"
)

// IDLayout formats test identifiers at second resolution (14 digits).
const IDLayout = "20060102150405"

var (
	ErrEmptyID  = errors.New("test id is empty")
	ErrNotFound = errors.New("test result not found")
)

// SessionStore holds test results for the lifetime of the process.
type SessionStore interface {
	// Create stores result under an identifier derived from the current
	// second and returns it. An existing record with the same identifier is
	// replaced.
	Create(ctx context.Context, result *models.TestResult) (string, error)
	// AttachEmail records email, as submitted, on an existing result. It
	// reports false and changes nothing when id is unknown.
	AttachEmail(ctx context.Context, id string, email json.RawMessage) (bool, error)
	// Get returns a copy of the stored result, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.TestResult, error)
}

// MemorySessionStore keeps results in a map for the lifetime of the process.
type MemorySessionStore struct {
	mu   sync.RWMutex
	data map[string]models.TestResult
	now  func() time.Time
}

// NewMemorySessionStore returns an empty store. now defaults to time.Now.
func NewMemorySessionStore(now func() time.Time) *MemorySessionStore {
	if now == nil {
		now = time.Now
	}
	return &MemorySessionStore{
		data: make(map[string]models.TestResult),
		now:  now,
	}
}

func (s *MemorySessionStore) Create(ctx context.Context, result *models.TestResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := s.now()
	record := *result
	record.ID = now.Format(IDLayout)
	record.CreatedAt = now
	record.Email = nil
	record.EmailSubmittedAt = nil

	s.mu.Lock()
	s.data[record.ID] = record
	s.mu.Unlock()

	return record.ID, nil
}

func (s *MemorySessionStore) AttachEmail(ctx context.Context, id string, email json.RawMessage) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if id == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.data[id]
	if !ok {
		return false, nil
	}
	submittedAt := s.now()
	record.Email = email
	record.EmailSubmittedAt = &submittedAt
	s.data[id] = record
	return true, nil
}

func (s *MemorySessionStore) Get(ctx context.Context, id string) (*models.TestResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, ErrEmptyID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &record, nil
}

// Count returns the number of stored results.
func (s *MemorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
