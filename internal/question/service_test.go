package question

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmw "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/events"
)

type recordingPublisher struct {
	events []events.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.events = append(r.events, e)
	return r.err
}

var expert = authmw.Principal{UserID: "u1", Role: authmw.RoleSubjectExpert}

func row(text, unit string) Draft {
	return Draft{Text: text, Unit: Field(unit), CO: "CO1", BL: "2", Marks: "5", Subject: "DS", Department: "CSE"}
}

func TestCreateManyPartialFailure(t *testing.T) {
	store := NewInMemoryStore()
	pub := &recordingPublisher{}
	svc := NewService(store, pub, nil, nil)

	res, err := svc.CreateMany(context.Background(), expert, []Draft{row("A", "1"), row("B", "7"), row("C", "3")})
	require.NoError(t, err)
	assert.Len(t, res.Inserted, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "Question 2: Unit must be between 1-6", res.Errors[0])

	all, err := store.List(context.Background(), Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, q := range all {
		assert.Equal(t, "u1", q.CreatedBy)
	}

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.QuestionBulkCreated, pub.events[0].Type)
}

func TestCreateManyNothingValid(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil, nil, nil)
	res, err := svc.CreateMany(context.Background(), expert, []Draft{row("", "1"), row("B", "x")})
	assert.ErrorIs(t, err, ErrNoValidRows)
	assert.Equal(t, []string{
		"Question 1: Missing required fields: questionText",
		"Question 2: unit must be a whole number",
	}, res.Errors)

	_, err = svc.CreateMany(context.Background(), expert, nil)
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestCreateSingle(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewService(NewInMemoryStore(), pub, nil, nil)
	fixed := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	q, err := svc.Create(context.Background(), expert, row("What is a tree?", "4"))
	require.NoError(t, err, "publish failures do not fail the insert")
	assert.NotEmpty(t, q.ID)
	assert.Equal(t, fixed, q.CreatedAt)
	require.Len(t, pub.events, 1)
	assert.Equal(t, q.ID, pub.events[0].Key)

	_, err = svc.Create(context.Background(), expert, row("bad", "0"))
	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestServiceRequiresPrincipal(t *testing.T) {
	svc := NewService(NewInMemoryStore(), nil, nil, nil)
	_, err := svc.Create(context.Background(), authmw.Principal{}, row("A", "1"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = svc.CreateMany(context.Background(), authmw.Principal{}, []Draft{row("A", "1")})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

// rejectingStore writes every row except the listed indexes, the way an
// unordered Mongo bulk insert reports duplicate keys.
type rejectingStore struct {
	Store
	reject map[int]error
}

func (r rejectingStore) InsertMany(ctx context.Context, qs []Question) ([]Question, error) {
	var keep []Question
	for i, q := range qs {
		if _, ok := r.reject[i]; !ok {
			keep = append(keep, q)
		}
	}
	saved, err := r.Store.InsertMany(ctx, keep)
	if err != nil {
		return nil, err
	}
	return saved, &PartialInsertError{Rows: r.reject}
}

func TestCreateManyStoreRejectsSomeRows(t *testing.T) {
	store := NewInMemoryStore()
	pub := &recordingPublisher{}
	svc := NewService(rejectingStore{Store: store, reject: map[int]error{1: errors.New("duplicate key")}}, pub, nil, nil)

	// Draft 2 fails validation, so valid index 1 is draft 3.
	res, err := svc.CreateMany(context.Background(), expert, []Draft{row("A", "1"), row("B", "7"), row("C", "3"), row("D", "4")})
	require.NoError(t, err)
	require.Len(t, res.Inserted, 2)
	assert.Equal(t, "A", res.Inserted[0].Text)
	assert.Equal(t, "D", res.Inserted[1].Text)
	assert.Equal(t, []string{
		"Question 2: Unit must be between 1-6",
		"Question 3: Processing error - duplicate key",
	}, res.Errors)

	all, err := store.List(context.Background(), Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	require.Len(t, pub.events, 1)
	data, ok := pub.events[0].Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2, data["failed"])
}

func TestCreateManyStoreRejectsEverything(t *testing.T) {
	svc := NewService(rejectingStore{Store: NewInMemoryStore(), reject: map[int]error{0: errors.New("duplicate key")}}, nil, nil, nil)

	res, err := svc.CreateMany(context.Background(), expert, []Draft{row("A", "1")})
	assert.ErrorIs(t, err, ErrNoValidRows)
	assert.Equal(t, []string{"Question 1: Processing error - duplicate key"}, res.Errors)
}
