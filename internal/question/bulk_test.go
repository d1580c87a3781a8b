package question

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinesSkipsTemplateAndShortLines(t *testing.T) {
	in := `Bulk Input
Format: text | unit | co | bl | marks | subject | department | course | semester
---
Example: What is a stack? | 1 | CO1 | 1 | 2 | DS | CSE
What is a queue? | 1 | CO1 | 1 | 2 | DS | CSE
Explain AVL rotations | 3 | CO3 | 3 | 10 | DS | CSE | B.E | V
too | short | row

# comment | 1 | 2 | 3 | 4 | 5 | 6
`
	drafts, err := ParseLines(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "What is a queue?", drafts[0].Text)
	assert.Equal(t, Field("2"), drafts[0].Marks)
	assert.Equal(t, "", drafts[0].Course)
	assert.Equal(t, "B.E", drafts[1].Course)
	assert.Equal(t, "V", drafts[1].Semester)
}

func TestParseCSVByHeader(t *testing.T) {
	in := "subject,department,question_text,unit,co,bl,marks\n" +
		"DS,CSE,\"Compare arrays, lists\",2,CO2,2,5\n"
	drafts, err := ParseCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Compare arrays, lists", drafts[0].Text)
	assert.Equal(t, "DS", drafts[0].Subject)
	assert.Equal(t, Field("5"), drafts[0].Marks)
}

func TestParseCSVMissingColumn(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("text,unit,co,bl,marks,subject\nx,1,CO1,1,2,DS\n"))
	assert.EqualError(t, err, "missing column: department")
}

func TestParseBulkSniffsFormat(t *testing.T) {
	j := `{"questions":[{"questionText":"Q","unit":1,"co":"CO1","bl":"2","marks":5,"subject":"DS","department":"CSE"}]}`
	drafts, err := ParseBulk(strings.NewReader(j))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, Field("1"), drafts[0].Unit)

	drafts, err = ParseBulk(strings.NewReader(`[{"questionText":"Q"}]`))
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	drafts, err = ParseBulk(strings.NewReader("Q1 | 1 | CO1 | 1 | 2 | DS | CSE\n"))
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	drafts, err = ParseBulk(strings.NewReader("text,unit,co,bl,marks,subject,department\nQ,1,CO1,1,2,DS,CSE\n"))
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	_, err = ParseBulk(strings.NewReader("   "))
	assert.Error(t, err)

	_, err = ParseBulk(strings.NewReader(`{"items": []}`))
	assert.EqualError(t, err, "questions array is required")
}

func TestParseBulkSkipsLeadingTemplateWhenSniffing(t *testing.T) {
	drafts, err := ParseBulk(strings.NewReader("# Bulk Input\nFormat: text, unit, co\nQ1 | 1 | CO1 | 1 | 2 | DS | CSE\n"))
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Q1", drafts[0].Text)
}
