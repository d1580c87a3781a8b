package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-qpaper/internal/paper"
	"github.com/mind-engage/mindengage-qpaper/internal/question"
)

// maxBody bounds JSON request bodies; bulk uploads use maxUpload.
const (
	maxBody   = 4 << 20
	maxUpload = 16 << 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func badRequest(w http.ResponseWriter, msg string, problems ...string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Message: msg, Errors: problems})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "bad json")
		return false
	}
	return true
}

// fail maps service errors onto status codes. Anything unrecognised is a 500
// with a generic body; the cause only goes to the log.
func fail(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	var ve *question.ValidationError
	var re *paper.RequestError
	switch {
	case errors.As(err, &ve):
		badRequest(w, "Validation error", ve.Problems...)
	case errors.As(err, &re):
		badRequest(w, "Invalid paper request", re.Problems...)
	case errors.Is(err, question.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Message: "authentication required"})
	case errors.Is(err, question.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Message: "not found"})
	default:
		log.Error(op+" failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "server error"})
	}
}
