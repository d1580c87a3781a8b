package question

import (
	"fmt"
	"strings"
	"time"
)

const (
	MinUnit  = 1
	MaxUnit  = 6
	MinBL    = 1
	MaxBL    = 6
	MinMarks = 1
	MaxMarks = 20
)

// ValidationError lists every problem found in a single question.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Problems, "; ")
}

// Validate trims and type-checks the draft and enforces the unit, BL and
// marks bounds. The returned question has no id yet.
func (d Draft) Validate(owner string, now time.Time) (Question, error) {
	q := Question{
		Text:       strings.TrimSpace(d.Text),
		CO:         strings.TrimSpace(d.CO),
		Subject:    strings.TrimSpace(d.Subject),
		Department: strings.TrimSpace(d.Department),
		Course:     strings.TrimSpace(d.Course),
		Semester:   strings.TrimSpace(d.Semester),
		CreatedBy:  owner,
		CreatedAt:  now.UTC(),
	}

	var missing []string
	if q.Text == "" {
		missing = append(missing, "questionText")
	}
	if d.Unit.Empty() {
		missing = append(missing, "unit")
	}
	if q.CO == "" {
		missing = append(missing, "co")
	}
	if d.BL.Empty() {
		missing = append(missing, "bl")
	}
	if d.Marks.Empty() {
		missing = append(missing, "marks")
	}
	if q.Subject == "" {
		missing = append(missing, "subject")
	}
	if q.Department == "" {
		missing = append(missing, "department")
	}
	if len(missing) > 0 {
		return Question{}, &ValidationError{Problems: []string{"Missing required fields: " + strings.Join(missing, ", ")}}
	}

	var problems []string
	bounded := func(name, label string, f Field, lo, hi int, dst *int) {
		n, err := f.Int()
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a whole number", name))
			return
		}
		if n < lo || n > hi {
			problems = append(problems, fmt.Sprintf("%s must be between %d-%d", label, lo, hi))
			return
		}
		*dst = n
	}
	bounded("unit", "Unit", d.Unit, MinUnit, MaxUnit, &q.Unit)
	bounded("bl", "BL", d.BL, MinBL, MaxBL, &q.BL)
	bounded("marks", "Marks", d.Marks, MinMarks, MaxMarks, &q.Marks)
	if len(problems) > 0 {
		return Question{}, &ValidationError{Problems: problems}
	}
	return q, nil
}
