package handler

import (
	"net/http"

	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/service"
)

// AssistHandler exposes the AI helpers of the meal form. They always answer
// 200: when the model fails the body holds a fallback.
type AssistHandler struct {
	assist *service.AssistService
}

func NewAssistHandler(assist *service.AssistService) *AssistHandler {
	return &AssistHandler{assist: assist}
}

type cuisineRequest struct {
	Dishes []string `json:"dishes"`
}

// HTTP: POST /api/ai/cuisine {"dishes": [...]}
func (h *AssistHandler) HandleCuisine(w http.ResponseWriter, r *http.Request) {
	var req cuisineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"cuisine": h.assist.Cuisine(r.Context(), req.Dishes)})
}

type scanRequest struct {
	Photo string `json:"photo"`
}

// HTTP: POST /api/ai/scan {"photo": "data:image/..."}
func (h *AssistHandler) HandleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	scan, err := h.assist.Scan(r.Context(), req.Photo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

type brainstormRequest struct {
	MealType model.MealType `json:"mealType"`
}

// HTTP: POST /api/ai/brainstorm {"mealType": "晚餐"}
func (h *AssistHandler) HandleBrainstorm(w http.ResponseWriter, r *http.Request) {
	var req brainstormRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	idea, err := h.assist.Brainstorm(r.Context(), req.MealType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, idea)
}

type dishesRequest struct {
	Tastes []model.Taste `json:"tastes"`
}

// HTTP: POST /api/ai/dishes {"tastes": ["酸", "辣"]}
func (h *AssistHandler) HandleDishes(w http.ResponseWriter, r *http.Request) {
	var req dishesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	dishes, err := h.assist.DishRange(r.Context(), req.Tastes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"dishes": dishes})
}
