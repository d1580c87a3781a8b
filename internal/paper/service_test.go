package paper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	authmw "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/events"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

type capture struct{ events []events.Event }

func (c *capture) Publish(_ context.Context, e events.Event) error {
	c.events = append(c.events, e)
	return nil
}

type failingSource struct{}

func (failingSource) List(context.Context, question.Criteria) ([]question.Question, error) {
	return nil, errors.New("db down")
}

func seed(t *testing.T) question.Store {
	t.Helper()
	st := question.NewInMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, x := range []question.Question{q("a", 5, 2), q("b", 5, 3), q("c", 10, 4)} {
		x.ID = ""
		x.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := st.Insert(context.Background(), x)
		require.NoError(t, err)
	}
	return st
}

var examiner = authmw.Principal{UserID: "u9", Role: authmw.RoleExaminer}

func TestServiceGenerate(t *testing.T) {
	pub := &capture{}
	svc := NewService(seed(t), stable(), Options{Events: pub})

	p, err := svc.Generate(context.Background(), examiner, RawRequest{
		PaperName:  "Mid",
		Subject:    "data",
		TotalMarks: "20",
		QuestionDistribution: []RawBucket{
			{Marks: "5", BL: "2", Count: "2"},
			{Marks: "10", BL: "4", Count: "1", Section: "Part-B"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, p.Questions, 3)
	assert.Equal(t, 20, p.TotalMarks)
	assert.Equal(t, "u9", p.GeneratedBy)
	assert.Equal(t, TierMarksOnly, p.DistributionResults[0].MatchType)
	assert.Equal(t, TierExact, p.DistributionResults[1].MatchType)
	assert.Empty(t, p.Warnings)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.PaperGenerated, pub.events[0].Type)
	assert.Equal(t, "Mid", pub.events[0].Key)
}

func TestServiceGenerateLogsBuckets(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(seed(t), stable(), Options{Logger: zap.New(core)})

	_, err := svc.Generate(context.Background(), examiner, RawRequest{
		PaperName:  "Mid",
		Subject:    "data",
		TotalMarks: "20",
		QuestionDistribution: []RawBucket{
			{Marks: "5", BL: "2", Count: "2"},
			{Marks: "10", BL: "4", Count: "1"},
		},
	})
	require.NoError(t, err)

	all := logs.AllUntimed()
	require.Len(t, all, 4)
	assert.Equal(t, "paper generation started", all[0].Message)
	assert.Equal(t, zapcore.InfoLevel, all[0].Level)
	start := all[0].ContextMap()
	assert.Equal(t, "Mid", start["paper"])
	assert.Equal(t, "data", start["subject"])
	assert.EqualValues(t, 2, start["buckets"])

	buckets := logs.FilterMessage("bucket matched").AllUntimed()
	require.Len(t, buckets, 2)
	first := buckets[0].ContextMap()
	assert.Equal(t, zapcore.DebugLevel, buckets[0].Level)
	assert.EqualValues(t, 2, first["requested"])
	assert.EqualValues(t, 2, first["found"])
	assert.Equal(t, string(TierMarksOnly), first["tier"])
	assert.Equal(t, string(TierExact), buckets[1].ContextMap()["tier"])

	assert.Equal(t, "paper generated", all[3].Message)
}

func TestServiceGenerateErrors(t *testing.T) {
	svc := NewService(seed(t), stable(), Options{})
	_, err := svc.Generate(context.Background(), authmw.Principal{}, RawRequest{})
	assert.ErrorIs(t, err, question.ErrUnauthenticated)

	_, err = svc.Generate(context.Background(), examiner, RawRequest{})
	var re *RequestError
	assert.True(t, errors.As(err, &re))

	svc = NewService(failingSource{}, nil, Options{})
	_, err = svc.Generate(context.Background(), examiner, RawRequest{QuestionDistribution: []RawBucket{{Marks: "5", BL: "2", Count: "1"}}})
	assert.EqualError(t, err, "db down")
}

func TestServiceCombinationsAndSuggest(t *testing.T) {
	svc := NewService(seed(t), stable(), Options{})
	hist, tally, err := svc.Combinations(context.Background(), question.Criteria{Subject: "DATA"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"5 marks - BL 2": 1, "5 marks - BL 3": 1, "10 marks - BL 4": 1}, hist)
	assert.Len(t, tally, 3)

	hist, _, err = svc.Combinations(context.Background(), question.Criteria{Subject: "physics"})
	require.NoError(t, err)
	assert.Empty(t, hist)

	b, err := svc.Suggest(context.Background(), question.Criteria{}, SuggestQuick)
	require.NoError(t, err)
	assert.Len(t, b, 3)
	assert.Equal(t, "Part-B", b[2].Section)
}
