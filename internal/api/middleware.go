package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"eventpro/internal/access"
	"eventpro/internal/account"
	"eventpro/internal/session"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "session"

// TokenFromRequest reads a bearer token, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[7:])
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SessionAuth attaches the session's user to the request context when the
// request carries a live session. Anonymous requests pass through untouched;
// RequireRole and RequireSession decide what they may see. A failing session
// store answers 503 rather than passing the request off as anonymous.
func SessionAuth(sessions *session.Manager, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			sess, err := sessions.Resolve(r.Context(), token)
			if errors.Is(err, session.ErrNoSession) {
				log.Debug("session not resolved", slog.String("error", err.Error()))
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.Error("session store unavailable", slog.String("error", err.Error()))
				WriteError(w, http.StatusServiceUnavailable, "SESSION_STORE_UNAVAILABLE", "sessions are temporarily unavailable")
				return
			}
			u := sess.User
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &u)))
		})
	}
}

// RequireRole is the dashboard role gate: anything other than a session
// holding role is sent to loginPath and sees no data.
func RequireRole(role account.Role, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := access.Authorize(UserFromContext(r.Context()), role, loginPath)
			if !d.Allowed {
				denied(w, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession admits any signed-in user regardless of role.
func RequireSession(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserFromContext(r.Context()) == nil {
				denied(w, access.Decision{Reason: access.ReasonUnauthenticated, Redirect: loginPath})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func denied(w http.ResponseWriter, d access.Decision) {
	if d.Reason == access.ReasonWrongRole {
		WriteRedirectError(w, http.StatusForbidden, "WRONG_ROLE", "this dashboard belongs to another role", d.Redirect)
		return
	}
	WriteRedirectError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "please log in", d.Redirect)
}

// RequestLogger logs one line per request after it completes.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.LogAttrs(r.Context(), slog.LevelInfo, "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
