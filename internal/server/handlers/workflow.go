// internal/server/handlers/workflow.go

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"resonance/internal/domain/optimization"
	"resonance/internal/logger"
	"resonance/internal/service/variation"
	"resonance/internal/service/workflow"
)

// Workflows is the orchestrator surface the HTTP layer needs
type Workflows interface {
	optimization.Orchestrator

	// Watch streams workflow changes to emit until the workflow finishes
	Watch(ctx context.Context, id string, emit func(optimization.Workflow) error) *workflow.Session
}

// WorkflowHandler handles optimization workflow requests
type WorkflowHandler struct {
	workflows Workflows
	logger    *logger.Logger
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflows Workflows, log *logger.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		workflows: workflows,
		logger:    log,
	}
}

// StartWorkflow starts a workflow in the background
func (h *WorkflowHandler) StartWorkflow(w http.ResponseWriter, r *http.Request) {
	var req optimization.Request
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	wf, err := h.workflows.Start(r.Context(), req)
	if errors.Is(err, workflow.ErrStopped) {
		respondWithError(w, h.logger, http.StatusServiceUnavailable, "Server is shutting down", err)
		return
	}
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, "Failed to start workflow", err)
		return
	}

	w.Header().Set("Location", "/api/v1/workflows/"+wf.ID)
	respondWithJSON(w, http.StatusAccepted, wf)
}

// GetWorkflow returns the current status record
func (h *WorkflowHandler) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := h.workflows.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, wf)
}

// GetSummary returns the terminal summary
func (h *WorkflowHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.workflows.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// GetResults returns everything the workflow has produced so far
func (h *WorkflowHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflows.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// GetRecommendations returns the grouped suggestion view
func (h *WorkflowHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	result, err := h.workflows.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result.Recommendations)
}

// GetABTest selects an A/B test subset from the workflow's variations
func (h *WorkflowHandler) GetABTest(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters
	metric := optimization.Metric(r.URL.Query().Get("metric"))
	n := 0
	if nStr := r.URL.Query().Get("n"); nStr != "" {
		parsed, err := strconv.Atoi(nStr)
		if err != nil || parsed < 0 {
			respondWithError(w, h.logger, http.StatusBadRequest, "Invalid variant count", err)
			return
		}
		n = parsed
	}

	result, err := h.workflows.Result(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithLookupError(w, err)
		return
	}

	plan, err := variation.SelectABTest(result.Variations, metric, n)
	if errors.Is(err, variation.ErrUnknownMetric) {
		respondWithError(w, h.logger, http.StatusBadRequest, "Unknown metric", err)
		return
	}
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, "Failed to select A/B test", err)
		return
	}

	respondWithJSON(w, http.StatusOK, plan)
}

func (h *WorkflowHandler) respondWithLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, optimization.ErrWorkflowNotFound):
		respondWithError(w, h.logger, http.StatusNotFound, "Workflow not found", nil)
	case errors.Is(err, optimization.ErrNotTerminal):
		respondWithError(w, h.logger, http.StatusConflict, "Workflow has not finished", err)
	default:
		respondWithError(w, h.logger, http.StatusInternalServerError, "Failed to load workflow", err)
	}
}
