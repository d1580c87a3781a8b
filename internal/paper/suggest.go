package paper

import "github.com/mind-engage/mindengage-qpaper/internal/question"

type SuggestMode string

const (
	// SuggestQuick asks for one question of every available combination.
	SuggestQuick SuggestMode = "quick"
	// SuggestFill asks for about half of what each combination holds, capped at two.
	SuggestFill SuggestMode = "fill"
)

// Suggest drafts a distribution from what the candidates can supply.
// Questions worth up to five marks go to Part-A, the rest to Part-B.
func Suggest(candidates []question.Question, mode SuggestMode) []Bucket {
	tally := Tally(candidates)
	out := make([]Bucket, 0, len(tally))
	for _, c := range tally {
		count := 1
		if mode == SuggestFill {
			count = min(2, max(1, c.Available/2))
		}
		section := "Part-A"
		if c.Marks > 5 {
			section = "Part-B"
		}
		out = append(out, Bucket{Marks: c.Marks, BL: c.BL, Count: count, Section: section})
	}
	return out
}
