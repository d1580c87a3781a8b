package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

func pq(id, text, section string, marks int) paper.PaperQuestion {
	return paper.PaperQuestion{
		Question: question.Question{ID: id, Text: text, Unit: 2, CO: "CO3", BL: 2, Marks: marks},
		Section:  section,
	}
}

func samplePaper() paper.Paper {
	return paper.Paper{
		PaperName:  "Mid Term 1",
		Subject:    "Data Structures",
		Department: "CSE",
		TotalMarks: 20,
		Questions: []paper.PaperQuestion{
			pq("a", "Define a stack.", "Part-A", 5),
			pq("b", "Define a queue.", "Part-A", 5),
			pq("c", "Explain AVL rotations <with> diagrams.", "Part-B", 10),
		},
	}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Mid_Term_1.doc", Filename("Mid  Term 1", FormatWord))
	assert.Equal(t, "question_paper.pdf", Filename("  ", FormatPDF))
	assert.Equal(t, "a_b.json", Filename("a/b", FormatJSON))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" Word ")
	require.NoError(t, err)
	assert.Equal(t, FormatWord, f)
	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestSectionsRestartNumbering(t *testing.T) {
	qs := []paper.PaperQuestion{
		pq("a", "1", "Part-A", 2), pq("b", "2", "Part-B", 10), pq("c", "3", "Part-A", 2), pq("d", "4", "", 2),
	}
	s := Sections(qs)
	require.Len(t, s, 2)
	assert.Equal(t, "Part-A", s[0].Name)
	require.Len(t, s[0].Questions, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{s[0].Questions[0].N, s[0].Questions[1].N, s[0].Questions[2].N})
	assert.Equal(t, "d", s[0].Questions[2].ID)
	assert.Equal(t, 1, s[1].Questions[0].N)
}

func TestRenderWord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatWord, Document{Paper: samplePaper(), Presentation: Presentation{Semester: "III"}}))
	out := buf.String()
	assert.Contains(t, out, "<title>Mid Term 1</title>")
	assert.Contains(t, out, "Semester: III | Main/Backlog | April 2025")
	assert.Contains(t, out, "Maximum Marks: 20")
	assert.Contains(t, out, `<div class="section">Part-B</div>`)
	assert.Contains(t, out, "&lt;with&gt;")
	assert.Equal(t, 2, strings.Count(out, `<span class="question-number">Q1.</span>`))
	assert.Contains(t, out, "Unit: 2 | CO: CO3 | Bloom's Level: 2")
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, FormatPDF, Document{Paper: samplePaper()}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestRenderRefusesEmptyPaper(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Render(&buf, FormatWord, Document{}), ErrEmptyPaper)
	assert.ErrorIs(t, Render(&buf, FormatPDF, Document{}), ErrEmptyPaper)
	assert.NoError(t, Render(&buf, FormatJSON, Document{}))
}

func TestRenderJSONVerbatim(t *testing.T) {
	var buf bytes.Buffer
	raw := []byte(`{"paperName":"X","extra":{"kept":true}}`)
	require.NoError(t, Render(&buf, FormatJSON, Document{Raw: raw}))
	assert.Equal(t, "{\n  \"paperName\": \"X\",\n  \"extra\": {\n    \"kept\": true\n  }\n}", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, FormatJSON, Document{Paper: samplePaper()}))
	assert.Contains(t, buf.String(), "\n  \"paperName\": \"Mid Term 1\",")
}

func TestLoadPresentation(t *testing.T) {
	p, err := LoadPresentation("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPresentation(), p)

	path := filepath.Join(t.TempDir(), "presentation.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collegeName: Test College\nsemester: IV\n"), 0o644))
	p, err = LoadPresentation(path)
	require.NoError(t, err)
	assert.Equal(t, "Test College", p.CollegeName)
	assert.Equal(t, "IV", p.Semester)
	assert.Equal(t, "3 Hours", p.Time)

	_, err = LoadPresentation(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
