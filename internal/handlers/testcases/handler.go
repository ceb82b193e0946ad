package testcases

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/gav-2025.net/internal/core/ports/primary"
	"gitlab.com/gav-2025.net/internal/core/services/testcase"
	"gitlab.com/gav-2025.net/internal/domain"
	"gitlab.com/gav-2025.net/internal/handlers/response"
)

// TestCaseHandler handles instructor test case API requests
type TestCaseHandler struct {
	testCaseService testcase.ITestCaseService
	logger          primary.Logger
}

// NewTestCaseHandler creates a new test case handler
func NewTestCaseHandler(testCaseService testcase.ITestCaseService, logger primary.Logger) *TestCaseHandler {
	return &TestCaseHandler{
		testCaseService: testCaseService,
		logger:          logger,
	}
}

// RegisterRoutes registers the API routes for TestCaseHandler
func (h *TestCaseHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/testcases", h.CreateTestCase).Methods("POST")
	router.HandleFunc("/api/testcases/{testcaseId}", h.GetTestCase).Methods("GET")
	router.HandleFunc("/api/testcases/{testcaseId}", h.UpdateTestCase).Methods("PUT")
	router.HandleFunc("/api/testcases/{testcaseId}", h.DeleteTestCase).Methods("DELETE")
	router.HandleFunc("/api/assignments/{assignmentId}/testcases", h.ListTestCases).Methods("GET")
}

// TestCaseRequest carries instructor-edited test case texts
type TestCaseRequest struct {
	AssignmentID   string `json:"assignment_id,omitempty"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// TestCaseResponse is the collaborator-facing test case view
type TestCaseResponse struct {
	ID             string `json:"id"`
	AssignmentID   string `json:"assignment_id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
}

// CreateTestCase adds a test case to an assignment
func (h *TestCaseHandler) CreateTestCase(w http.ResponseWriter, r *http.Request) {
	var req TestCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid request body", StatusCode: http.StatusBadRequest})
		return
	}

	assignmentID, err := uuid.Parse(req.AssignmentID)
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid assignment_id", StatusCode: http.StatusBadRequest})
		return
	}

	tc, err := h.testCaseService.Create(r.Context(), assignmentID, req.Input, req.ExpectedOutput)
	if err != nil {
		h.logger.Error("Failed to create test case", "error", err)
		response.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toResponse(tc))
}

// GetTestCase returns one test case
func (h *TestCaseHandler) GetTestCase(w http.ResponseWriter, r *http.Request) {
	id, ok := h.testCaseID(w, r)
	if !ok {
		return
	}

	tc, err := h.testCaseService.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, toResponse(tc))
}

// UpdateTestCase overwrites the texts and purges dependent results
func (h *TestCaseHandler) UpdateTestCase(w http.ResponseWriter, r *http.Request) {
	id, ok := h.testCaseID(w, r)
	if !ok {
		return
	}

	var req TestCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid request body", StatusCode: http.StatusBadRequest})
		return
	}

	if err := h.testCaseService.Update(r.Context(), id, req.Input, req.ExpectedOutput); err != nil {
		h.logger.Error("Failed to update test case", "test_case", id, "error", err)
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, map[string]string{"status": "updated"})
}

// DeleteTestCase removes the test case and purges dependent results
func (h *TestCaseHandler) DeleteTestCase(w http.ResponseWriter, r *http.Request) {
	id, ok := h.testCaseID(w, r)
	if !ok {
		return
	}

	if err := h.testCaseService.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.WriteSuccess(w, map[string]string{"status": "deleted"})
}

// ListTestCases returns an assignment's test cases in order
func (h *TestCaseHandler) ListTestCases(w http.ResponseWriter, r *http.Request) {
	assignmentID, err := uuid.Parse(mux.Vars(r)["assignmentId"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid assignment id", StatusCode: http.StatusBadRequest})
		return
	}

	tests, err := h.testCaseService.ListByAssignment(r.Context(), assignmentID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	out := make([]TestCaseResponse, 0, len(tests))
	for _, tc := range tests {
		out = append(out, toResponse(tc))
	}
	response.WriteSuccess(w, out)
}

func (h *TestCaseHandler) testCaseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["testcaseId"])
	if err != nil {
		response.WriteError(w, response.ErrorMessage{Message: "invalid test case id", StatusCode: http.StatusBadRequest})
		return uuid.Nil, false
	}
	return id, true
}

func toResponse(tc *domain.TestCase) TestCaseResponse {
	return TestCaseResponse{
		ID:             tc.ID.String(),
		AssignmentID:   tc.AssignmentID.String(),
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
	}
}
