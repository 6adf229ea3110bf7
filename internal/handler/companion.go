package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/ganfan/internal/apperror"
	"github.com/sakif/ganfan/internal/companion"
)

// CompanionHandler serves the shared companion pool.
type CompanionHandler struct {
	pool   *companion.Pool
	taps   *companion.TapDetector
	logger *slog.Logger
}

func NewCompanionHandler(pool *companion.Pool, taps *companion.TapDetector, logger *slog.Logger) *CompanionHandler {
	return &CompanionHandler{pool: pool, taps: taps, logger: logger}
}

type companionRequest struct {
	Name string `json:"name"`
}

// HTTP: GET /api/companions
func (h *CompanionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.pool.List(r.Context()))
}

// HandleAdd adds a name; blank or duplicate names leave the pool unchanged.
//
// HTTP: POST /api/companions {"name": "..."}
func (h *CompanionHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req companionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.pool.Add(r.Context(), req.Name))
}

// HTTP: DELETE /api/companions/{name}
func (h *CompanionHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	name, err := companionParam(r)
	if err != nil || name == "" {
		writeError(w, apperror.ValidationFailed("name", "companion name is required"))
		return
	}

	pool := h.pool.Remove(r.Context(), name)
	h.logger.Info("companion removed", slog.String("name", name))
	writeJSON(w, http.StatusOK, pool)
}

// companionParam returns the decoded {name} segment. chi matches against
// RawPath when the request carries one (an escaped "/" for instance), and the
// param is still escaped only in that case.
func companionParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

type tapResponse struct {
	Gesture companion.Gesture `json:"gesture"`
}

// HandleTap classifies a tap on a pool entry as select or remove. The client
// acts on the gesture; a remove still needs DELETE /api/companions/{name}.
//
// HTTP: POST /api/companions/tap {"name": "..."}
func (h *CompanionHandler) HandleTap(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req companionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, apperror.ValidationFailed("name", "companion name is required"))
		return
	}

	writeJSON(w, http.StatusOK, tapResponse{Gesture: h.taps.Tap(userID, req.Name)})
}
