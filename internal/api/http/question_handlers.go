package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

func CreateQuestionHandler(svc *question.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d question.Draft
		if !decode(w, r, &d) {
			return
		}
		q, err := svc.Create(r.Context(), auth.PrincipalFromContext(r.Context()), d)
		if err != nil {
			var ve *question.ValidationError
			if errors.As(err, &ve) && len(ve.Problems) == 1 && strings.HasPrefix(ve.Problems[0], "Missing required fields") {
				badRequest(w, ve.Problems[0])
				return
			}
			fail(w, log, "create question", err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"message":  "Question added successfully",
			"question": q,
		})
	}
}

type bulkResponse struct {
	Message   string              `json:"message"`
	Saved     int                 `json:"saved"`
	Failed    int                 `json:"failed"`
	Errors    []string            `json:"errors,omitempty"`
	Questions []question.Question `json:"questions"`
}

// BulkCreateQuestionsHandler accepts {"questions": [...]}, a bare JSON array,
// a multipart file= upload, or a text/plain or text/csv body in the bulk line
// formats.
func BulkCreateQuestionsHandler(svc *question.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drafts, err := readDrafts(w, r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		if len(drafts) == 0 {
			badRequest(w, "Questions array is required")
			return
		}

		res, err := svc.CreateMany(r.Context(), auth.PrincipalFromContext(r.Context()), drafts)
		if errors.Is(err, question.ErrNoValidRows) {
			badRequest(w, "No valid questions to save", res.Errors...)
			return
		}
		if err != nil {
			fail(w, log, "bulk create", err)
			return
		}
		writeJSON(w, http.StatusCreated, bulkResponse{
			Message:   fmt.Sprintf("Successfully added %d questions", len(res.Inserted)),
			Saved:     len(res.Inserted),
			Failed:    len(res.Errors),
			Errors:    res.Errors,
			Questions: res.Inserted,
		})
	}
}

func readDrafts(w http.ResponseWriter, r *http.Request) ([]question.Draft, error) {
	ct := r.Header.Get("Content-Type")
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		f, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("file required")
		}
		defer f.Close()
		return question.ParseBulk(f)
	case strings.HasPrefix(ct, "text/"):
		return question.ParseBulk(r.Body)
	default:
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if !json.Valid(b) {
			return nil, errors.New("bad json")
		}
		return question.ParseJSON(bytes.NewReader(b))
	}
}

// ListQuestionsHandler returns the bank newest first. Query parameters
// subject, department, course, units (comma list) and cos narrow the result.
func ListQuestionsHandler(svc *question.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := criteriaFromQuery(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		qs, err := svc.List(r.Context(), c)
		if err != nil {
			fail(w, log, "list questions", err)
			return
		}
		writeJSON(w, http.StatusOK, qs)
	}
}

func criteriaFromQuery(r *http.Request) (question.Criteria, error) {
	q := r.URL.Query()
	c := question.Criteria{
		Subject:    strings.TrimSpace(q.Get("subject")),
		Department: strings.TrimSpace(q.Get("department")),
		Course:     strings.TrimSpace(q.Get("course")),
	}
	for _, u := range splitList(q["units"]) {
		n, err := strconv.Atoi(u)
		if err != nil {
			return question.Criteria{}, fmt.Errorf("units: %q is not a whole number", u)
		}
		c.Units = append(c.Units, n)
	}
	c.COs = splitList(q["cos"])
	return c, nil
}

// splitList accepts both repeated parameters and comma lists.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
