package paper

import (
	"fmt"
	"sort"

	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

// PaperQuestion is a selected question tagged with its section.
type PaperQuestion struct {
	question.Question
	Section string `json:"section"`
}

// BucketResult reports what one distribution row achieved.
type BucketResult struct {
	Criteria    string   `json:"criteria"`
	Marks       int      `json:"marks"`
	BL          int      `json:"bl"`
	Section     string   `json:"section"`
	Requested   int      `json:"requested"`
	Found       int      `json:"found"`
	QuestionIDs []string `json:"questionIds"`
	MatchType   Tier     `json:"matchType"`
	ExactMatch  bool     `json:"exactMatch"`
}

// Paper is an assembled exam paper plus its generation report.
type Paper struct {
	PaperName             string          `json:"paperName"`
	Department            string          `json:"department"`
	Course                string          `json:"course"`
	Subject               string          `json:"subject"`
	GeneratedBy           string          `json:"generatedBy,omitempty"`
	TotalMarks            int             `json:"totalMarks"`
	RequestedMarks        int             `json:"requestedMarks"`
	TargetMarks           int             `json:"targetMarks,omitempty"`
	Questions             []PaperQuestion `json:"questions"`
	Distribution          []Bucket        `json:"distribution"`
	DistributionResults   []BucketResult  `json:"distributionResults"`
	AvailableCombinations map[string]int  `json:"availableCombinations"`
	Warnings              []string        `json:"warnings,omitempty"`
	Message               string          `json:"message"`
}

const (
	msgNoCandidates = "No questions found matching the criteria"
	msgNoneSelected = "No questions were generated. Please check your distribution criteria against available questions."
	msgFlexible     = " Some questions were matched using flexible criteria."
)

// Assemble concatenates bucket selections in bucket order. TotalMarks is the
// achieved sum, not the requested one. target, when positive, is the total
// the caller asked for and only feeds the warnings.
func Assemble(buckets []Bucket, matches []Match, target int) Paper {
	p := Paper{
		Questions:           []PaperQuestion{},
		Distribution:        buckets,
		DistributionResults: make([]BucketResult, 0, len(buckets)),
		TargetMarks:         target,
	}
	requested := 0
	allExact := true
	for i, b := range buckets {
		var m Match
		if i < len(matches) {
			m = matches[i]
		} else {
			m = Match{Tier: TierAny}
		}
		ids := make([]string, 0, len(m.Questions))
		for _, q := range m.Questions {
			p.Questions = append(p.Questions, PaperQuestion{Question: q, Section: b.Section})
			p.TotalMarks += q.Marks
			ids = append(ids, q.ID)
		}
		p.DistributionResults = append(p.DistributionResults, BucketResult{
			Criteria:    b.String(),
			Marks:       b.Marks,
			BL:          b.BL,
			Section:     b.Section,
			Requested:   b.Count,
			Found:       len(m.Questions),
			QuestionIDs: ids,
			MatchType:   m.Tier,
			ExactMatch:  m.Tier == TierExact,
		})
		requested += b.Count
		p.RequestedMarks += b.Marks * b.Count
		if m.Tier != TierExact {
			allExact = false
		}
	}

	if len(p.Questions) == 0 {
		p.Message = msgNoneSelected
	} else {
		p.Message = fmt.Sprintf("Generated paper with %d of %d requested questions.", len(p.Questions), requested)
		if !allExact {
			p.Message += msgFlexible
		}
	}
	if target > 0 && p.RequestedMarks != target {
		p.Warnings = append(p.Warnings, totalMismatch(p.RequestedMarks, target))
	}
	return p
}

// CombinationKey formats a marks/BL pair the way the histogram reports it.
func CombinationKey(marks, bl int) string {
	return fmt.Sprintf("%d marks - BL %d", marks, bl)
}

// Combinations counts the pool by marks and BL.
func Combinations(pool []question.Question) map[string]int {
	out := map[string]int{}
	for _, q := range pool {
		out[CombinationKey(q.Marks, q.BL)]++
	}
	return out
}

// Combo is one histogram cell in structured form.
type Combo struct {
	Marks     int `json:"marks"`
	BL        int `json:"bl"`
	Available int `json:"available"`
}

// Tally is Combinations ordered by marks, then BL.
func Tally(pool []question.Question) []Combo {
	idx := map[[2]int]int{}
	var out []Combo
	for _, q := range pool {
		k := [2]int{q.Marks, q.BL}
		if i, ok := idx[k]; ok {
			out[i].Available++
			continue
		}
		idx[k] = len(out)
		out = append(out, Combo{Marks: q.Marks, BL: q.BL, Available: 1})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Marks != out[j].Marks {
			return out[i].Marks < out[j].Marks
		}
		return out[i].BL < out[j].BL
	})
	return out
}

// Build runs the whole core over a pool snapshot: resolve, match every
// bucket in order against one used set, assemble.
func Build(pool []question.Question, req Request, m *Matcher) Paper {
	candidates := Resolve(pool, req.Criteria)
	used := UsedSet{}
	matches := make([]Match, 0, len(req.Distribution))
	for _, b := range req.Distribution {
		matches = append(matches, m.MatchBucket(candidates, b, used))
	}

	p := Assemble(req.Distribution, matches, req.TargetMarks)
	p.PaperName = req.PaperName
	p.Department = req.Criteria.Department
	p.Course = req.Criteria.Course
	p.Subject = req.Criteria.Subject
	p.AvailableCombinations = Combinations(candidates)
	if len(candidates) == 0 {
		p.Message = msgNoCandidates
	}
	return p
}
