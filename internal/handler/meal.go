package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/service"
)

// MealHandler serves the journal itself.
type MealHandler struct {
	meals  *service.MealService
	logger *slog.Logger
}

func NewMealHandler(meals *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{meals: meals, logger: logger}
}

// HandleList returns every record in the order it was logged.
//
// HTTP: GET /api/meals
func (h *MealHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	records, err := h.meals.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list meals", slog.String("userID", userID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleCreate logs a meal. The response carries the detected cuisine.
//
// HTTP: POST /api/meals
func (h *MealHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var in model.MealInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	record, err := h.meals.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// HandleFeed returns the home grid; ?all=true lifts the three-day limit.
//
// HTTP: GET /api/feed
func (h *MealHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	feed, err := h.meals.Feed(r.Context(), userID, all)
	if err != nil {
		h.logger.Error("failed to build feed", slog.String("userID", userID), slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}
