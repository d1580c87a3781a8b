package question

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// pipe-delimited columns, in order
var lineColumns = []string{"questionText", "unit", "co", "bl", "marks", "subject", "department", "course", "semester"}

const minLineFields = 7

// ParseBulk sniffs the payload: a JSON array or {"questions": [...]} object,
// pipe-delimited lines, or CSV with a header row.
func ParseBulk(r io.Reader) ([]Draft, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(buf)
	if len(trimmed) == 0 {
		return nil, errors.New("empty upload")
	}
	switch {
	case trimmed[0] == '[' || trimmed[0] == '{':
		return ParseJSON(bytes.NewReader(trimmed))
	case bytes.Contains(firstContentLine(trimmed), []byte("|")):
		return ParseLines(bytes.NewReader(trimmed))
	default:
		return ParseCSV(bytes.NewReader(trimmed))
	}
}

// firstContentLine skips blank and template lines.
func firstContentLine(b []byte) []byte {
	for _, line := range bytes.Split(b, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) > 0 && !isTemplateLine(string(line)) {
			return line
		}
	}
	return nil
}

// ParseJSON accepts either a bare array of drafts or {"questions": [...]}.
func ParseJSON(r io.Reader) ([]Draft, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var env struct {
			Questions *[]Draft `json:"questions"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, fmt.Errorf("bad json: %w", err)
		}
		if env.Questions == nil {
			return nil, errors.New("questions array is required")
		}
		return *env.Questions, nil
	}
	var out []Draft
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bad json: %w", err)
	}
	return out, nil
}

// ParseLines reads one question per line:
//
//	text | unit | co | bl | marks | subject | department | course | semester
//
// Lines with fewer than seven fields and template lines are skipped.
func ParseLines(r io.Reader) ([]Draft, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var out []Draft
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || isTemplateLine(line) {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < minLineFields {
			continue
		}
		vals := make([]string, len(lineColumns))
		for i := range vals {
			if i < len(parts) {
				vals[i] = strings.TrimSpace(parts[i])
			}
		}
		out = append(out, draftFrom(vals))
	}
	return out, sc.Err()
}

func isTemplateLine(line string) bool {
	if strings.HasPrefix(line, "#") {
		return true
	}
	for _, marker := range []string{"Format:", "Example:", "---", "Bulk Input"} {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// ParseCSV reads a header row naming the columns; order is free.
func ParseCSV(r io.Reader) ([]Draft, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[normalizeHeader(h)] = i
	}
	if i, ok := idx["text"]; ok {
		if _, dup := idx["questiontext"]; !dup {
			idx["questiontext"] = i
		}
	}
	for _, k := range lineColumns[:minLineFields] {
		if _, ok := idx[strings.ToLower(k)]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var out []Draft
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		vals := make([]string, len(lineColumns))
		for i, col := range lineColumns {
			if j, ok := idx[strings.ToLower(col)]; ok && j < len(rec) {
				vals[i] = strings.TrimSpace(rec[j])
			}
		}
		out = append(out, draftFrom(vals))
	}
	return out, nil
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.ReplaceAll(h, "_", "")
	return strings.ReplaceAll(h, " ", "")
}

func draftFrom(v []string) Draft {
	return Draft{
		Text:       v[0],
		Unit:       Field(v[1]),
		CO:         v[2],
		BL:         Field(v[3]),
		Marks:      Field(v[4]),
		Subject:    v[5],
		Department: v[6],
		Course:     v[7],
		Semester:   v[8],
	}
}
