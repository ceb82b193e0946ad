package submissions

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/core/services/submission"
	"gitlab.com/gav-2025.net/internal/domain"
	"gitlab.com/gav-2025.net/internal/handlers/response"
)

// SubmissionHandler handles submission API requests
type SubmissionHandler struct {
	submissionService submission.ISubmissionService
	logger            primary.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService submission.ISubmissionService, logger primary.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the API routes for SubmissionHandler
func (h *SubmissionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/submissions", h.CreateSubmission).Methods("POST")
	router.HandleFunc("/api/submissions/{submissionId}", h.GetSubmission).Methods("GET")
	router.HandleFunc("/api/submissions/{submissionId}/results", h.GetResults).Methods("GET")
	router.HandleFunc("/api/submissions/{submissionId}/regrade", h.Regrade).Methods("POST")
	router.HandleFunc("/api/submissions/{submissionId}/source", h.ReplaceSource).Methods("PUT")
	router.HandleFunc("/api/submissions/{submissionId}/confirm", h.Confirm).Methods("POST")
	router.HandleFunc("/api/submissions/{submissionId}", h.DeleteSubmission).Methods("DELETE")
}

// CreateSubmissionRequest represents a request to submit a program
type CreateSubmissionRequest struct {
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	SourcePath   string `json:"source_path"`
}

// SubmissionResponse is the collaborator-facing submission view
type SubmissionResponse struct {
	ID           string `json:"id"`
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	SourcePath   string `json:"source_path"`
	Compiled     *bool  `json:"compiled"`
	Confirmed    bool   `json:"confirmed"`
}

// CreateSubmission persists the submission and grades it synchronously
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid request body", StatusCode: http.StatusBadRequest})
		return
	}

	studentID, err := uuid.Parse(req.StudentID)
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid student_id", StatusCode: http.StatusBadRequest})
		return
	}
	assignmentID, err := uuid.Parse(req.AssignmentID)
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid assignment_id", StatusCode: http.StatusBadRequest})
		return
	}
	if req.SourcePath == "" {
		response.WriteError(w, response.ErrorMessage{Message: "source_path is required", StatusCode: http.StatusBadRequest})
		return
	}

	sub, err := h.submissionService.Create(r.Context(), studentID, assignmentID, req.SourcePath)
	if err != nil {
		h.logger.Error("Failed to create submission", "error", err)
		response.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toResponse(sub))
}

// GetSubmission returns the submission record
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	sub, err := h.submissionService.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, toResponse(sub))
}

// GetResults returns the lazily filled test report
func (h *SubmissionHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	report, err := h.submissionService.Results(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to produce test results", "submission", id, "error", err)
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, report)
}

// Regrade forces a fresh full evaluation
func (h *SubmissionHandler) Regrade(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	if err := h.submissionService.Regrade(r.Context(), id); err != nil {
		h.logger.Error("Failed to regrade submission", "submission", id, "error", err)
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, map[string]string{"status": "regraded"})
}

// ReplaceSourceRequest carries the replacement artifact path
type ReplaceSourceRequest struct {
	SourcePath string `json:"source_path"`
}

// ReplaceSource swaps the source artifact and invalidates cached results
func (h *SubmissionHandler) ReplaceSource(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	var req ReplaceSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SourcePath == "" {
		response.WriteError(w, response.ErrorMessage{Message: "source_path is required", StatusCode: http.StatusBadRequest})
		return
	}

	oldPath, err := h.submissionService.ReplaceSource(r.Context(), id, req.SourcePath)
	if err != nil {
		response.FromError(w, err)
		return
	}

	// The collaborator owns the artifact store and disposes of the
	// previous file.
	response.WriteSuccess(w, map[string]string{"old_source_path": oldPath})
}

// Confirm marks the submission as final
func (h *SubmissionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	if err := h.submissionService.Confirm(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, map[string]string{"status": "confirmed"})
}

// DeleteSubmission removes the submission and its cached results
func (h *SubmissionHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := h.submissionID(w, r)
	if !ok {
		return
	}

	if err := h.submissionService.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, map[string]string{"status": "deleted"})
}

func (h *SubmissionHandler) submissionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["submissionId"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid submission id", StatusCode: http.StatusBadRequest})
		return uuid.Nil, false
	}
	return id, true
}

func toResponse(sub *domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           sub.ID.String(),
		StudentID:    sub.StudentID.String(),
		AssignmentID: sub.AssignmentID.String(),
		SourcePath:   sub.SourcePath,
		Compiled:     sub.Compiled,
		Confirmed:    sub.Confirmed,
	}
}
