package paper

import (
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

// Selector picks up to n questions from the eligible set of one tier. It must
// not return more than n or anything outside candidates, and may reorder
// candidates in place.
type Selector interface {
	Select(candidates []question.Question, n int) []question.Question
}

// RandomSelector shuffles uniformly and takes the first n. It is safe for
// concurrent use.
type RandomSelector struct{}

func (RandomSelector) Select(c []question.Question, n int) []question.Question {
	rand.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
	return take(c, n)
}

// SeededSelector is a reproducible RandomSelector.
type SeededSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededSelector(seed uint64) *SeededSelector {
	return &SeededSelector{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSelector) Select(c []question.Question, n int) []question.Question {
	s.mu.Lock()
	s.rng.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
	s.mu.Unlock()
	return take(c, n)
}

// StableSelector takes the n smallest ids.
type StableSelector struct{}

func (StableSelector) Select(c []question.Question, n int) []question.Question {
	sort.Slice(c, func(i, j int) bool { return c[i].ID < c[j].ID })
	return take(c, n)
}

func take(c []question.Question, n int) []question.Question {
	if n < 0 {
		n = 0
	}
	if n > len(c) {
		n = len(c)
	}
	out := make([]question.Question, n)
	copy(out, c[:n])
	return out
}
