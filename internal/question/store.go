package question

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("question not found")

// PartialInsertError is returned by InsertMany when some rows were written
// and others rejected. Rows is keyed by index into the slice passed in; the
// questions returned alongside it are the ones that were stored.
type PartialInsertError struct {
	Rows map[int]error
}

func (e *PartialInsertError) Error() string {
	return fmt.Sprintf("%d questions rejected by the store", len(e.Rows))
}

// Store persists questions. Implementations assign an id when the question
// has none and return the stored copy.
type Store interface {
	Insert(ctx context.Context, q Question) (Question, error)
	InsertMany(ctx context.Context, qs []Question) ([]Question, error)
	Get(ctx context.Context, id string) (Question, error)
	// List returns matching questions, newest first.
	List(ctx context.Context, c Criteria) ([]Question, error)
}

func withID(q Question) Question {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return q
}

type memoryStore struct {
	mu        sync.RWMutex
	questions []Question
}

func NewInMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Insert(_ context.Context, q Question) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q = withID(q)
	m.questions = append(m.questions, q)
	return q, nil
}

func (m *memoryStore) InsertMany(_ context.Context, qs []Question) ([]Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		q = withID(q)
		m.questions = append(m.questions, q)
		out = append(out, q)
	}
	return out, nil
}

func (m *memoryStore) Get(_ context.Context, id string) (Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, q := range m.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

func (m *memoryStore) List(_ context.Context, c Criteria) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Question{}
	for _, q := range m.questions {
		if c.Matches(q) {
			out = append(out, q)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
