package export

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Presentation holds the header fields printed on an exported paper. None of
// it affects which questions are on the paper.
type Presentation struct {
	CollegeName     string `json:"collegeName,omitempty" yaml:"collegeName"`
	Program         string `json:"program,omitempty" yaml:"program"`
	Semester        string `json:"semester,omitempty" yaml:"semester"`
	ExaminationType string `json:"examinationType,omitempty" yaml:"examinationType"`
	MonthYear       string `json:"monthYear,omitempty" yaml:"monthYear"`
	Time            string `json:"time,omitempty" yaml:"time"`
	Note            string `json:"note,omitempty" yaml:"note"`
	CommonTo        string `json:"commonTo,omitempty" yaml:"commonTo"`
}

func DefaultPresentation() Presentation {
	return Presentation{
		CollegeName:     "CHAITANYA BHARATHI INSTITUTE OF TECHNOLOGY (Autonomous)",
		Program:         "B.E. & B.Tech.",
		ExaminationType: "Main/Backlog",
		MonthYear:       "April 2025",
		Time:            "3 Hours",
		Note:            "Answer ALL questions from Part-A & Part-B (Internal Choice) at one place in the same order",
		CommonTo:        "All Branches",
	}
}

// Merge returns p with its blank fields taken from base.
func (p Presentation) Merge(base Presentation) Presentation {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	return Presentation{
		CollegeName:     pick(p.CollegeName, base.CollegeName),
		Program:         pick(p.Program, base.Program),
		Semester:        pick(p.Semester, base.Semester),
		ExaminationType: pick(p.ExaminationType, base.ExaminationType),
		MonthYear:       pick(p.MonthYear, base.MonthYear),
		Time:            pick(p.Time, base.Time),
		Note:            pick(p.Note, base.Note),
		CommonTo:        pick(p.CommonTo, base.CommonTo),
	}
}

// LoadPresentation reads defaults from a YAML file and fills anything it
// leaves blank from DefaultPresentation. An empty path yields the defaults.
func LoadPresentation(path string) (Presentation, error) {
	if path == "" {
		return DefaultPresentation(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Presentation{}, fmt.Errorf("read presentation: %w", err)
	}
	var p Presentation
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Presentation{}, fmt.Errorf("parse presentation %s: %w", path, err)
	}
	return p.Merge(DefaultPresentation()), nil
}
