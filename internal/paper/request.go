package paper

import (
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

const DefaultSection = "Part-A"

// Bucket is one typed row of a requested distribution.
type Bucket struct {
	Marks   int    `json:"marks"`
	BL      int    `json:"bl"`
	Count   int    `json:"count"`
	Section string `json:"section"`
}

func (b Bucket) String() string {
	return fmt.Sprintf("%d questions of %d marks (BL %d) in %s", b.Count, b.Marks, b.BL, b.Section)
}

// RawBucket is a distribution row as it arrives from untyped input.
type RawBucket struct {
	Marks   question.Field `json:"marks"`
	BL      question.Field `json:"bl"`
	Count   question.Field `json:"count"`
	Section string         `json:"section"`
}

// RawRequest is the caller-facing generation request.
type RawRequest struct {
	PaperName            string           `json:"paperName"`
	Department           string           `json:"department"`
	Subject              string           `json:"subject"`
	Course               string           `json:"course,omitempty"`
	Units                []question.Field `json:"units,omitempty"`
	CourseOutcomes       []string         `json:"courseOutcomes,omitempty"`
	COs                  []string         `json:"cos,omitempty"`
	TotalMarks           question.Field   `json:"totalMarks,omitempty"`
	QuestionDistribution []RawBucket      `json:"questionDistribution"`
}

// Request is a parsed, typed generation request.
type Request struct {
	PaperName    string
	Criteria     question.Criteria
	TargetMarks  int // 0 when the caller stated no target
	Distribution []Bucket
}

// RequestedMarks is the sum of marks times count over the distribution.
func (r Request) RequestedMarks() int {
	sum := 0
	for _, b := range r.Distribution {
		sum += b.Marks * b.Count
	}
	return sum
}

func (r Request) RequestedCount() int {
	n := 0
	for _, b := range r.Distribution {
		n += b.Count
	}
	return n
}

// RequestError lists every problem found in a generation request.
type RequestError struct {
	Problems []string
}

func (e *RequestError) Error() string {
	return "invalid paper request: " + strings.Join(e.Problems, "; ")
}

// Limits bounds request size at the boundary. Zero fields are unlimited.
type Limits struct {
	MaxBuckets     int
	MaxBucketCount int
	// StrictTotal rejects requests whose distribution does not add up to the
	// stated total marks.
	StrictTotal bool
}

// ParseRequest turns untyped input into a Request. Rows whose marks, BL or
// count are not whole numbers, or whose count is not positive, are rejected
// here instead of reaching the matcher. Out-of-range but numeric marks and BL
// are kept: they can still be served by the "any" tier.
func ParseRequest(raw RawRequest, lim Limits) (Request, error) {
	req := Request{
		PaperName: strings.TrimSpace(raw.PaperName),
		Criteria: question.Criteria{
			Subject:    strings.TrimSpace(raw.Subject),
			Department: strings.TrimSpace(raw.Department),
			Course:     strings.TrimSpace(raw.Course),
		},
	}
	var problems []string

	for i, u := range raw.Units {
		n, err := u.Int()
		if err != nil {
			problems = append(problems, fmt.Sprintf("units[%d]: %q is not a whole number", i, string(u)))
			continue
		}
		req.Criteria.Units = append(req.Criteria.Units, n)
	}
	for _, co := range append(append([]string{}, raw.CourseOutcomes...), raw.COs...) {
		if co = strings.TrimSpace(co); co != "" {
			req.Criteria.COs = append(req.Criteria.COs, co)
		}
	}
	if !raw.TotalMarks.Empty() {
		n, err := raw.TotalMarks.Int()
		if err != nil || n < 0 {
			problems = append(problems, fmt.Sprintf("totalMarks: %q is not a whole number", string(raw.TotalMarks)))
		} else {
			req.TargetMarks = n
		}
	}

	if len(raw.QuestionDistribution) == 0 {
		problems = append(problems, "questionDistribution: at least one row is required")
	}
	if lim.MaxBuckets > 0 && len(raw.QuestionDistribution) > lim.MaxBuckets {
		problems = append(problems, fmt.Sprintf("questionDistribution: %d rows exceeds the limit of %d", len(raw.QuestionDistribution), lim.MaxBuckets))
	}
	for i, rb := range raw.QuestionDistribution {
		b, errs := parseBucket(rb, lim)
		for _, e := range errs {
			problems = append(problems, fmt.Sprintf("questionDistribution[%d]: %s", i, e))
		}
		if len(errs) == 0 {
			req.Distribution = append(req.Distribution, b)
		}
	}

	if len(problems) == 0 && lim.StrictTotal && req.TargetMarks > 0 && req.RequestedMarks() != req.TargetMarks {
		problems = append(problems, totalMismatch(req.RequestedMarks(), req.TargetMarks))
	}
	if len(problems) > 0 {
		return Request{}, &RequestError{Problems: problems}
	}
	return req, nil
}

func parseBucket(rb RawBucket, lim Limits) (Bucket, []string) {
	b := Bucket{Section: strings.TrimSpace(rb.Section)}
	if b.Section == "" {
		b.Section = DefaultSection
	}
	var errs []string
	num := func(name string, f question.Field, dst *int) {
		n, err := f.Int()
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not a whole number", name, string(f)))
			return
		}
		*dst = n
	}
	num("marks", rb.Marks, &b.Marks)
	num("bl", rb.BL, &b.BL)
	num("count", rb.Count, &b.Count)
	if len(errs) == 0 {
		if b.Count <= 0 {
			errs = append(errs, "count must be positive")
		} else if lim.MaxBucketCount > 0 && b.Count > lim.MaxBucketCount {
			errs = append(errs, fmt.Sprintf("count %d exceeds the limit of %d", b.Count, lim.MaxBucketCount))
		}
	}
	return b, errs
}

func totalMismatch(configured, target int) string {
	return fmt.Sprintf("Configured marks (%d) do not match total marks (%d)", configured, target)
}
