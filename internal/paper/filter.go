package paper

import "github.com/mind-engage/mindengage-qpaper/internal/question"

// Resolve narrows the pool to questions passing every supplied criterion.
// Store order is preserved; an empty result is not an error.
func Resolve(pool []question.Question, c question.Criteria) []question.Question {
	out := make([]question.Question, 0, len(pool))
	for _, q := range pool {
		if c.Matches(q) {
			out = append(out, q)
		}
	}
	return out
}
