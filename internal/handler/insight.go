package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/ganfan/internal/garden"
	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/service"
)

// InsightHandler serves everything derived from the journal: the garden,
// statistics and AI captions.
type InsightHandler struct {
	insights *service.InsightService
	logger   *slog.Logger
}

func NewInsightHandler(insights *service.InsightService, logger *slog.Logger) *InsightHandler {
	return &InsightHandler{insights: insights, logger: logger}
}

// HTTP: GET /api/garden
func (h *InsightHandler) HandleGarden(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := h.insights.Garden(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type interactRequest struct {
	Action garden.Action `json:"action"`
}

// HTTP: POST /api/garden/interact {"action": "water" | "feed" | "pet"}
func (h *InsightHandler) HandleInteract(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req interactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	reply, err := h.insights.Interact(r.Context(), userID, req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// HTTP: GET /api/stats
func (h *InsightHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := h.insights.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HTTP: GET /api/analysis?period=week|month|year
func (h *InsightHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	period := model.AnalysisPeriod(r.URL.Query().Get("period"))
	result, err := h.insights.Analysis(r.Context(), userID, period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HTTP: GET /api/tips
func (h *InsightHandler) HandleTips(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	tips, err := h.insights.Tips(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tips)
}
