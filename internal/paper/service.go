package paper

import (
	"context"
	"time"

	"go.uber.org/zap"

	authmw "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/events"
	"github.com/mind-engage/mindengage-qpaper/internal/metrics"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

// Source is the read side of the question store.
type Source interface {
	List(ctx context.Context, c question.Criteria) ([]question.Question, error)
}

type Options struct {
	Limits  Limits
	Events  events.Publisher
	Metrics *metrics.Recorder
	Logger  *zap.Logger
}

// Service generates papers from a live store. Each call works on its own
// snapshot of the pool; concurrent calls share nothing but the selector.
type Service struct {
	src     Source
	matcher *Matcher
	limits  Limits
	events  events.Publisher
	metrics *metrics.Recorder
	log     *zap.Logger
	now     func() time.Time
}

func NewService(src Source, m *Matcher, opts Options) *Service {
	if m == nil {
		m = NewMatcher(nil)
	}
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		src:     src,
		matcher: m,
		limits:  opts.Limits,
		events:  opts.Events,
		metrics: opts.Metrics,
		log:     opts.Logger,
		now:     time.Now,
	}
}

func (s *Service) Limits() Limits { return s.limits }

// Generate parses raw, fetches the matching pool and assembles a paper.
// A *RequestError is returned for malformed input; store errors are passed
// through. Returning a paper with zero questions is not an error.
func (s *Service) Generate(ctx context.Context, p authmw.Principal, raw RawRequest) (Paper, error) {
	if !p.Authenticated() {
		return Paper{}, question.ErrUnauthenticated
	}
	req, err := ParseRequest(raw, s.limits)
	if err != nil {
		return Paper{}, err
	}
	start := s.now()
	s.log.Info("paper generation started",
		zap.String("paper", req.PaperName),
		zap.String("subject", req.Criteria.Subject),
		zap.String("department", req.Criteria.Department),
		zap.String("course", req.Criteria.Course),
		zap.Ints("units", req.Criteria.Units),
		zap.Strings("cos", req.Criteria.COs),
		zap.Int("buckets", len(req.Distribution)),
		zap.String("generated_by", p.UserID))
	pool, err := s.src.List(ctx, req.Criteria)
	if err != nil {
		return Paper{}, err
	}
	if err := ctx.Err(); err != nil {
		return Paper{}, err
	}

	paper := Build(pool, req, s.matcher)
	paper.GeneratedBy = p.UserID

	for i, r := range paper.DistributionResults {
		s.metrics.BucketMatched(string(r.MatchType))
		s.log.Debug("bucket matched",
			zap.String("paper", paper.PaperName),
			zap.Int("bucket", i),
			zap.String("criteria", r.Criteria),
			zap.Int("requested", r.Requested),
			zap.Int("found", r.Found),
			zap.String("tier", string(r.MatchType)))
	}
	s.metrics.PaperGenerated(s.now().Sub(start))
	s.log.Info("paper generated",
		zap.String("paper", paper.PaperName),
		zap.String("subject", paper.Subject),
		zap.Int("pool", len(pool)),
		zap.Int("selected", len(paper.Questions)),
		zap.Int("requested", req.RequestedCount()),
		zap.Int("total_marks", paper.TotalMarks),
		zap.String("generated_by", p.UserID))

	ids := make([]string, len(paper.Questions))
	for i, q := range paper.Questions {
		ids[i] = q.ID
	}
	e := events.Event{
		Type: events.PaperGenerated,
		Key:  paper.PaperName,
		Data: map[string]any{"questionIds": ids, "totalMarks": paper.TotalMarks, "generatedBy": p.UserID},
		At:   s.now(),
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.log.Warn("event publish failed", zap.String("type", e.Type), zap.Error(err))
	}
	return paper, nil
}

// Combinations reports the marks/BL histogram of the questions matching c.
func (s *Service) Combinations(ctx context.Context, c question.Criteria) (map[string]int, []Combo, error) {
	pool, err := s.src.List(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	candidates := Resolve(pool, c)
	return Combinations(candidates), Tally(candidates), nil
}

// Suggest drafts a distribution for c from what the store holds.
func (s *Service) Suggest(ctx context.Context, c question.Criteria, mode SuggestMode) ([]Bucket, error) {
	pool, err := s.src.List(ctx, c)
	if err != nil {
		return nil, err
	}
	return Suggest(Resolve(pool, c), mode), nil
}
