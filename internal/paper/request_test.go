package paper

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) RawRequest {
	t.Helper()
	var raw RawRequest
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return raw
}

func TestParseRequestCoercesStrings(t *testing.T) {
	raw := decode(t, `{
		"paperName": " Mid Term ",
		"subject": "DS",
		"units": ["1", 2],
		"cos": ["CO2"],
		"courseOutcomes": ["CO1", " "],
		"totalMarks": "20",
		"questionDistribution": [
			{"marks": "5", "bl": 2, "count": "2", "section": "Part-A"},
			{"marks": 10, "bl": "4", "count": 1}
		]
	}`)
	req, err := ParseRequest(raw, Limits{})
	require.NoError(t, err)
	assert.Equal(t, "Mid Term", req.PaperName)
	assert.Equal(t, []int{1, 2}, req.Criteria.Units)
	assert.Equal(t, []string{"CO1", "CO2"}, req.Criteria.COs)
	assert.Equal(t, 20, req.TargetMarks)
	assert.Equal(t, []Bucket{
		{Marks: 5, BL: 2, Count: 2, Section: "Part-A"},
		{Marks: 10, BL: 4, Count: 1, Section: DefaultSection},
	}, req.Distribution)
	assert.Equal(t, 20, req.RequestedMarks())
	assert.Equal(t, 3, req.RequestedCount())
}

func TestParseRequestRejectsMalformedBuckets(t *testing.T) {
	raw := decode(t, `{"questionDistribution": [
		{"marks": "five", "bl": 2, "count": 1},
		{"marks": 5, "bl": 2, "count": 0},
		{"marks": 5, "bl": 2, "count": 2.5}
	]}`)
	_, err := ParseRequest(raw, Limits{})
	var re *RequestError
	require.True(t, errors.As(err, &re))
	assert.Len(t, re.Problems, 3)
	assert.Contains(t, re.Problems[0], "questionDistribution[0]: marks")
	assert.Equal(t, "questionDistribution[1]: count must be positive", re.Problems[1])
}

func TestParseRequestKeepsOutOfRangeNumbers(t *testing.T) {
	raw := decode(t, `{"questionDistribution": [{"marks": 40, "bl": 9, "count": 1}]}`)
	req, err := ParseRequest(raw, Limits{})
	require.NoError(t, err)
	assert.Equal(t, 40, req.Distribution[0].Marks)
}

func TestParseRequestLimits(t *testing.T) {
	raw := decode(t, `{"questionDistribution": [{"marks": 5, "bl": 2, "count": 9}, {"marks": 5, "bl": 2, "count": 1}]}`)
	_, err := ParseRequest(raw, Limits{MaxBuckets: 1, MaxBucketCount: 5})
	var re *RequestError
	require.True(t, errors.As(err, &re))
	assert.Len(t, re.Problems, 2)

	_, err = ParseRequest(RawRequest{}, Limits{})
	assert.Error(t, err)
}

func TestParseRequestStrictTotal(t *testing.T) {
	raw := decode(t, `{"totalMarks": 30, "questionDistribution": [{"marks": 5, "bl": 2, "count": 2}]}`)
	_, err := ParseRequest(raw, Limits{})
	require.NoError(t, err)

	_, err = ParseRequest(raw, Limits{StrictTotal: true})
	var re *RequestError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, []string{"Configured marks (10) do not match total marks (30)"}, re.Problems)
}
