// internal/server/handlers/analysis.go

package handlers

import (
	"errors"
	"net/http"

	"resonance/internal/domain/audience"
	"resonance/internal/domain/content"
	"resonance/internal/domain/resonance"
	"resonance/internal/logger"
)

// AnalysisHandler handles synchronous resonance analysis requests
type AnalysisHandler struct {
	engine   resonance.Engine
	segments audience.Store
	logger   *logger.Logger
}

// NewAnalysisHandler creates a new analysis handler. segments may be nil.
func NewAnalysisHandler(engine resonance.Engine, segments audience.Store, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		engine:   engine,
		segments: segments,
		logger:   log,
	}
}

// analysisRequest is the body of analysis and lookup requests
type analysisRequest struct {
	Submission content.Submission `json:"submission"`
	SegmentID  string             `json:"segment_id,omitempty"`
	Segment    *audience.Segment  `json:"segment,omitempty"`
}

// Analyze scores a submission against a segment
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	// Parse request body
	var req analysisRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	// Resolve segment
	segment := req.Segment
	if segment == nil && req.SegmentID != "" {
		if h.segments == nil {
			respondWithError(w, h.logger, http.StatusNotFound, "Audience segment not found", nil)
			return
		}
		seg, err := h.segments.GetSegment(r.Context(), req.SegmentID)
		if errors.Is(err, audience.ErrSegmentNotFound) {
			respondWithError(w, h.logger, http.StatusNotFound, "Audience segment not found", err)
			return
		}
		if err != nil {
			respondWithError(w, h.logger, http.StatusInternalServerError, "Failed to load audience segment", err)
			return
		}
		segment = seg
	}

	// Analyze
	analysis, err := h.engine.Analyze(r.Context(), req.Submission, segment)
	if errors.Is(err, content.ErrInvalidSubmission) {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid submission", err)
		return
	}
	if err != nil {
		respondWithError(w, h.logger, http.StatusInternalServerError, "Failed to analyze content", err)
		return
	}

	respondWithJSON(w, http.StatusOK, analysis)
}

// Lookup returns a cached analysis for a (content, segment ID) pair
func (h *AnalysisHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, h.logger, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SegmentID == "" {
		respondWithError(w, h.logger, http.StatusBadRequest, "Missing segment ID", nil)
		return
	}

	analysis, ok := h.engine.Lookup(req.Submission, req.SegmentID)
	if !ok {
		respondWithError(w, h.logger, http.StatusNotFound, "Analysis not found", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, analysis)
}
