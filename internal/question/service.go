package question

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	authmw "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/events"
	"github.com/mind-engage/mindengage-qpaper/internal/metrics"
)

var (
	ErrNoValidRows     = errors.New("no valid questions to save")
	ErrUnauthenticated = errors.New("authenticated user required")
)

// BulkResult reports a partial-failure bulk insert: valid rows are saved,
// each rejected row gets one message.
type BulkResult struct {
	Inserted []Question `json:"questions"`
	Errors   []string   `json:"errors,omitempty"`
}

type Service struct {
	store   Store
	events  events.Publisher
	metrics *metrics.Recorder
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store Store, pub events.Publisher, rec *metrics.Recorder, log *zap.Logger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, events: pub, metrics: rec, log: log, now: time.Now}
}

func (s *Service) Create(ctx context.Context, p authmw.Principal, d Draft) (Question, error) {
	if !p.Authenticated() {
		return Question{}, ErrUnauthenticated
	}
	q, err := d.Validate(p.UserID, s.now())
	if err != nil {
		s.metrics.QuestionsRejected(1)
		return Question{}, err
	}
	q, err = s.store.Insert(ctx, q)
	if err != nil {
		return Question{}, err
	}
	s.metrics.QuestionsInserted(1)
	s.log.Info("question saved", zap.String("id", q.ID), zap.String("subject", q.Subject), zap.String("created_by", q.CreatedBy))
	s.publish(ctx, events.Event{
		Type: events.QuestionCreated,
		Key:  q.ID,
		Data: map[string]any{"subject": q.Subject, "department": q.Department, "marks": q.Marks, "bl": q.BL},
	})
	return q, nil
}

// CreateMany validates every draft independently. Rows the store rejects are
// reported like validation failures. ErrNoValidRows is returned, together
// with the per-row messages, when nothing could be saved.
func (s *Service) CreateMany(ctx context.Context, p authmw.Principal, drafts []Draft) (BulkResult, error) {
	if !p.Authenticated() {
		return BulkResult{}, ErrUnauthenticated
	}
	now := s.now()
	valid := make([]Question, 0, len(drafts))
	rows := make([]int, 0, len(drafts))
	var bad rowErrors
	for i, d := range drafts {
		q, err := d.Validate(p.UserID, now)
		if err != nil {
			bad.add(i+1, err)
			continue
		}
		valid = append(valid, q)
		rows = append(rows, i+1)
	}
	if len(valid) == 0 {
		s.metrics.QuestionsRejected(len(bad))
		return BulkResult{Errors: bad.messages()}, ErrNoValidRows
	}

	saved, err := s.store.InsertMany(ctx, valid)
	var pe *PartialInsertError
	if errors.As(err, &pe) {
		for i, rerr := range pe.Rows {
			bad.add(rows[i], rerr)
		}
		err = nil
	}
	problems := bad.messages()
	if err != nil {
		return BulkResult{Errors: problems}, err
	}
	s.metrics.QuestionsRejected(len(problems))
	if len(saved) == 0 {
		return BulkResult{Errors: problems}, ErrNoValidRows
	}
	s.metrics.QuestionsInserted(len(saved))
	s.log.Info("bulk upload processed",
		zap.Int("rows", len(drafts)), zap.Int("saved", len(saved)), zap.Int("failed", len(problems)),
		zap.String("created_by", p.UserID))
	ids := make([]string, len(saved))
	for i, q := range saved {
		ids[i] = q.ID
	}
	s.publish(ctx, events.Event{
		Type: events.QuestionBulkCreated,
		Key:  p.UserID,
		Data: map[string]any{"ids": ids, "failed": len(problems)},
	})
	return BulkResult{Inserted: saved, Errors: problems}, nil
}

func (s *Service) List(ctx context.Context, c Criteria) ([]Question, error) {
	return s.store.List(ctx, c)
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	e.At = s.now()
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed", zap.String("type", e.Type), zap.Error(err))
	}
}

type rowError struct {
	row int
	err error
}

// rowErrors collects per-row failures from validation and from the store.
type rowErrors []rowError

func (r *rowErrors) add(row int, err error) { *r = append(*r, rowError{row, err}) }

// messages renders the failures in row order.
func (r rowErrors) messages() []string {
	sort.SliceStable(r, func(i, j int) bool { return r[i].row < r[j].row })
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = rowMessage(e.row, e.err)
	}
	return out
}

func rowMessage(row int, err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return fmt.Sprintf("Question %d: %s", row, strings.Join(ve.Problems, "; "))
	}
	return fmt.Sprintf("Question %d: Processing error - %v", row, err)
}
