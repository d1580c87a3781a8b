package events

import (
	"context"
	"errors"
	"time"
)

const (
	QuestionCreated     = "question.created"
	QuestionBulkCreated = "question.bulk_created"
	PaperGenerated      = "paper.generated"
)

// Event is a domain fact. Key is the natural key (question id, paper name);
// Data is marshalled to JSON by publishers.
type Event struct {
	Type string
	Key  string
	Data any
	At   time.Time
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout delivers to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
