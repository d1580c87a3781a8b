package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mind-engage/mindengage-qpaper/internal/paper"
)

type Format string

const (
	FormatWord Format = "word"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

var ErrEmptyPaper = errors.New("paper has no questions")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatWord, "doc":
		return FormatWord, nil
	case FormatPDF, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

func (f Format) Ext() string {
	switch f {
	case FormatWord:
		return ".doc"
	case FormatPDF:
		return ".pdf"
	default:
		return ".json"
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatWord:
		return "application/vnd.ms-word"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/json"
	}
}

var spaces = regexp.MustCompile(`\s+`)

// Filename derives a download name from the paper name.
func Filename(paperName string, f Format) string {
	name := strings.TrimSpace(paperName)
	if name == "" {
		name = "question_paper"
	}
	name = strings.NewReplacer("/", "_", `\`, "_", `"`, "").Replace(spaces.ReplaceAllString(name, "_"))
	return name + f.Ext()
}

// Document is what gets rendered. Raw, when set, is the caller's own JSON for
// the paper and is emitted unchanged (apart from indentation) by FormatJSON.
type Document struct {
	Paper        paper.Paper
	Presentation Presentation
	Raw          json.RawMessage
}

// Render writes d in format f. Word and PDF refuse a paper without questions.
func Render(w io.Writer, f Format, d Document) error {
	switch f {
	case FormatWord:
		if len(d.Paper.Questions) == 0 {
			return ErrEmptyPaper
		}
		return renderWord(w, d)
	case FormatPDF:
		if len(d.Paper.Questions) == 0 {
			return ErrEmptyPaper
		}
		return renderPDF(w, d)
	case FormatJSON:
		return renderJSON(w, d)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

func renderJSON(w io.Writer, d Document) error {
	raw := d.Raw
	if len(raw) == 0 {
		b, err := json.Marshal(d.Paper)
		if err != nil {
			return err
		}
		raw = b
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("paper json: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Numbered is a question with its position inside its section.
type Numbered struct {
	N int
	paper.PaperQuestion
}

type Section struct {
	Name      string
	Questions []Numbered
}

// Sections groups questions by section label in order of first appearance.
// Numbering restarts at 1 in every group.
func Sections(qs []paper.PaperQuestion) []Section {
	var out []Section
	idx := map[string]int{}
	for _, q := range qs {
		name := q.Section
		if name == "" {
			name = paper.DefaultSection
		}
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, Section{Name: name})
		}
		out[i].Questions = append(out[i].Questions, Numbered{N: len(out[i].Questions) + 1, PaperQuestion: q})
	}
	return out
}
