package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"gitlab.com/gav-2025.net/internal/domain"
)

type ErrorMessage struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

func WriteError(w http.ResponseWriter, err ErrorMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(err)
}

func WriteSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data)
}

// FromError maps domain errors onto HTTP statuses. Grading outcomes
// never reach this path; only lookup and infrastructure failures do.
func FromError(w http.ResponseWriter, err error) {
	var buildErr *domain.BuildError

	switch {
	case errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrTestCaseNotFound):
		WriteError(w, ErrorMessage{Message: err.Error(), StatusCode: http.StatusNotFound})
	case errors.Is(err, domain.ErrEngineUnavailable):
		WriteError(w, ErrorMessage{Message: err.Error(), StatusCode: http.StatusServiceUnavailable})
	case errors.Is(err, domain.ErrSubmissionLocked):
		WriteError(w, ErrorMessage{Message: err.Error(), StatusCode: http.StatusConflict})
	case errors.As(err, &buildErr):
		// Infrastructure failure after a successful compile; distinct
		// from "does not compile".
		WriteError(w, ErrorMessage{Message: err.Error(), StatusCode: http.StatusBadGateway})
	default:
		WriteError(w, ErrorMessage{Message: err.Error(), StatusCode: http.StatusInternalServerError})
	}
}
