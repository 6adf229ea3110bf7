package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/ganfan/internal/auth"
	"github.com/sakif/ganfan/internal/model"
	"github.com/sakif/ganfan/internal/service"
)

// UserHandler serves login, the profile and preferences.
type UserHandler struct {
	users        *service.UserService
	tokens       *auth.TokenService
	secureCookie bool
	logger       *slog.Logger
}

func NewUserHandler(users *service.UserService, tokens *auth.TokenService, secureCookie bool, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		users:        users,
		tokens:       tokens,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
}

// HandleLogin logs in by nickname, creating the user on first use.
//
// HTTP: POST /api/login {"username": "..."}
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.users.Login(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetSessionCookie(w, res.Token, h.tokens.TTL(), h.secureCookie)
	writeJSON(w, http.StatusOK, res.User)
}

// HandleLogout drops the session cookie.
//
// HTTP: POST /api/logout
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.secureCookie)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the logged-in user.
//
// HTTP: GET /api/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type avatarRequest struct {
	Photo string `json:"photo"`
}

// HandleSetAvatar replaces the avatar.
//
// HTTP: PUT /api/me/avatar {"photo": "data:image/..."}
func (h *UserHandler) HandleSetAvatar(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req avatarRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.SetAvatar(r.Context(), userID, req.Photo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type guardianRequest struct {
	Kind model.GuardianKind `json:"kind"`
}

// HandleGenerateGuardian draws a new guardian. A model failure answers 502
// with a message meant for a toast.
//
// HTTP: POST /api/me/guardian {"kind": "cat" | "dog"}
func (h *UserHandler) HandleGenerateGuardian(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req guardianRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.GenerateGuardian(r.Context(), userID, req.Kind)
	if err != nil {
		h.logger.Warn("guardian generation failed",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleGetPreferences returns theme and nurture type.
//
// HTTP: GET /api/preferences
func (h *UserHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.users.Preferences(r.Context(), userID))
}

// HandleUpdatePreferences changes the fields present in the body.
//
// HTTP: PUT /api/preferences {"theme"?: "...", "nurtureType"?: "..."}
func (h *UserHandler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req service.PreferencesUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	prefs, err := h.users.UpdatePreferences(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}
