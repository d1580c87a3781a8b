package question

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Question is a stored, validated exam question. Records are immutable once
// inserted.
type Question struct {
	ID         string    `json:"id" bson:"_id"`
	Text       string    `json:"questionText" bson:"question_text"`
	Unit       int       `json:"unit" bson:"unit"`
	CO         string    `json:"co" bson:"co"`
	BL         int       `json:"bl" bson:"bl"`
	Marks      int       `json:"marks" bson:"marks"`
	Subject    string    `json:"subject" bson:"subject"`
	Department string    `json:"department" bson:"department"`
	Course     string    `json:"course" bson:"course"`
	Semester   string    `json:"semester" bson:"semester"`
	CreatedBy  string    `json:"createdBy" bson:"created_by"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

// Draft is a question as submitted by a form, a bulk upload row or a JSON
// body. Nothing is trusted until Validate runs.
type Draft struct {
	Text       string `json:"questionText"`
	Unit       Field  `json:"unit"`
	CO         string `json:"co"`
	BL         Field  `json:"bl"`
	Marks      Field  `json:"marks"`
	Subject    string `json:"subject"`
	Department string `json:"department"`
	Course     string `json:"course,omitempty"`
	Semester   string `json:"semester,omitempty"`
}

// Field holds a numeric input that may arrive as a JSON number or a string.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*f = ""
	case strings.HasPrefix(s, `"`):
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = Field(strings.TrimSpace(v))
	default:
		*f = Field(s)
	}
	return nil
}

func (f Field) Empty() bool { return strings.TrimSpace(string(f)) == "" }

// Int parses the field as a whole number. "5" and "5.0" are both 5.
func (f Field) Int() (int, error) {
	s := strings.TrimSpace(string(f))
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, strconv.ErrSyntax
	}
	return int(v), nil
}

// Criteria narrows a question pool. Zero-valued fields impose no constraint.
// Subject, department and course match as case-insensitive substrings; units
// and course outcomes are membership tests.
type Criteria struct {
	Subject    string   `json:"subject,omitempty"`
	Department string   `json:"department,omitempty"`
	Course     string   `json:"course,omitempty"`
	Units      []int    `json:"units,omitempty"`
	COs        []string `json:"courseOutcomes,omitempty"`
}

func (c Criteria) Matches(q Question) bool {
	if !containsFold(q.Subject, c.Subject) ||
		!containsFold(q.Department, c.Department) ||
		!containsFold(q.Course, c.Course) {
		return false
	}
	if len(c.Units) > 0 && !containsInt(c.Units, q.Unit) {
		return false
	}
	if len(c.COs) > 0 && !containsString(c.COs, q.CO) {
		return false
	}
	return true
}

func containsFold(have, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.Contains(strings.ToLower(have), strings.ToLower(want))
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(xs []string, v string) bool {
	for _, x := range xs {
		if strings.TrimSpace(x) == v {
			return true
		}
	}
	return false
}
