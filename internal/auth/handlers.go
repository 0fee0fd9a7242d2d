package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventpro/internal/account"
	"eventpro/internal/api"
	"eventpro/internal/session"
	"eventpro/pkg/config"
)

type Handlers struct {
	Cfg      config.Config
	Accounts *account.Service
	Sessions *session.Manager
	Log      *slog.Logger
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	u, err := h.Accounts.Signup(r.Context(), req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, account.ErrInvalidInput):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", strings.TrimPrefix(err.Error(), account.ErrInvalidInput.Error()+": "))
		return
	case errors.Is(err, account.ErrEmailTaken):
		api.WriteError(w, http.StatusConflict, "EMAIL_TAKEN", "email already registered")
		return
	case err != nil:
		h.Log.Error("signup failed", slog.String("error", err.Error()))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	h.startSession(w, r, u, http.StatusCreated)
}

func (h Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	u, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, account.ErrInvalidCredentials) {
		api.WriteError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
		return
	}
	if err != nil {
		h.Log.Error("login failed", slog.String("error", err.Error()))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	h.startSession(w, r, u, http.StatusOK)
}

// Logout ends the current session. Calling it without one is not an error.
func (h Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := api.TokenFromRequest(r); token != "" {
		if err := h.Sessions.Close(r.Context(), token); err != nil {
			h.Log.Error("logout failed", slog.String("error", err.Error()))
			api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     api.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.AppEnv == "prod",
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) Me(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteRedirectError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "please log in", h.Cfg.Session.LoginPath)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (h Handlers) startSession(w http.ResponseWriter, r *http.Request, u account.User, status int) {
	token, sess, err := h.Sessions.Open(r.Context(), u)
	if err != nil {
		h.Log.Error("open session failed", slog.String("user_id", u.ID), slog.String("error", err.Error()))
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     api.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.Cfg.AppEnv == "prod",
	})
	api.WriteJSON(w, status, map[string]any{
		"user":      u,
		"token":     token,
		"expiresAt": sess.ExpiresAt,
	})
}
