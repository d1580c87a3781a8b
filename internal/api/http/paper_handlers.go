package http

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

// GeneratePaperHandler never fails for a thin bank: an empty paper comes
// back as 200 with a message explaining what was missing.
func GeneratePaperHandler(svc *paper.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw paper.RawRequest
		if !decode(w, r, &raw) {
			return
		}
		p, err := svc.Generate(r.Context(), auth.PrincipalFromContext(r.Context()), raw)
		if err != nil {
			fail(w, log, "generate paper", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type combinationsResponse struct {
	Total                 int            `json:"total"`
	AvailableCombinations map[string]int `json:"availableCombinations"`
	Combinations          []paper.Combo  `json:"combinations"`
}

func CombinationsHandler(svc *paper.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := criteriaFromQuery(r)
		if err != nil {
			badRequest(w, err.Error())
			return
		}
		hist, tally, err := svc.Combinations(r.Context(), c)
		if err != nil {
			fail(w, log, "combinations", err)
			return
		}
		total := 0
		for _, n := range hist {
			total += n
		}
		if tally == nil {
			tally = []paper.Combo{}
		}
		writeJSON(w, http.StatusOK, combinationsResponse{Total: total, AvailableCombinations: hist, Combinations: tally})
	}
}

type suggestRequest struct {
	Subject        string           `json:"subject"`
	Department     string           `json:"department"`
	Course         string           `json:"course"`
	Units          []question.Field `json:"units"`
	CourseOutcomes []string         `json:"courseOutcomes"`
	COs            []string         `json:"cos"`
	Mode           string           `json:"mode"`
}

// SuggestHandler drafts a questionDistribution the caller can edit and send
// back to the generate endpoint.
func SuggestHandler(svc *paper.Service, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in suggestRequest
		if !decode(w, r, &in) {
			return
		}
		mode := paper.SuggestMode(strings.ToLower(strings.TrimSpace(in.Mode)))
		switch mode {
		case "":
			mode = paper.SuggestQuick
		case paper.SuggestQuick, paper.SuggestFill:
		default:
			badRequest(w, "mode must be quick or fill")
			return
		}
		c := question.Criteria{
			Subject:    strings.TrimSpace(in.Subject),
			Department: strings.TrimSpace(in.Department),
			Course:     strings.TrimSpace(in.Course),
			COs:        append(append([]string{}, in.CourseOutcomes...), in.COs...),
		}
		for _, u := range in.Units {
			n, err := u.Int()
			if err != nil {
				badRequest(w, "units must be whole numbers")
				return
			}
			c.Units = append(c.Units, n)
		}
		buckets, err := svc.Suggest(r.Context(), c, mode)
		if err != nil {
			fail(w, log, "suggest", err)
			return
		}
		marks := 0
		for _, b := range buckets {
			marks += b.Marks * b.Count
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"questionDistribution": buckets,
			"totalMarks":           marks,
		})
	}
}
