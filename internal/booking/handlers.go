package booking

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"eventpro/internal/account"
	"eventpro/internal/api"
)

type Handlers struct {
	Bookings *Service
	Log      *slog.Logger
}

func (h Handlers) Submit(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var in Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	b, err := h.Bookings.Submit(r.Context(), *u, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, map[string]any{"booking": b})
}

// Dashboard serves whichever dashboard the route's role gate admitted.
func (h Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	d, err := h.Bookings.Dashboard(r.Context(), *u)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, d)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	b, err := h.Bookings.Get(r.Context(), *u, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"booking": b,
		"actions": Actions(b.Status),
	})
}

type TransitionRequest struct {
	Action string `json:"action"`
}

func (h Handlers) Transition(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	a, err := ParseAction(req.Action)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid action")
		return
	}

	b, err := h.Bookings.Transition(r.Context(), *u, chi.URLParam(r, "id"), a)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

type PatchStatusRequest struct {
	Status string `json:"status"`
}

// PatchStatus accepts a target status and resolves the action that reaches it.
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var req PatchStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}
	next, err := ParseStatus(req.Status)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid status")
		return
	}

	b, err := h.Bookings.MoveTo(r.Context(), *u, chi.URLParam(r, "id"), next)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

type ProgressRequest struct {
	Progress string `json:"progress"`
}

func (h Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid json")
		return
	}

	b, err := h.Bookings.UpdateProgress(r.Context(), *u, chi.URLParam(r, "id"), req.Progress)
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"booking": b})
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	items, err := h.Bookings.Timeline(r.Context(), *u, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Payment(w http.ResponseWriter, r *http.Request) {
	u := api.UserFromContext(r.Context())
	if u == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing session")
		return
	}

	link, err := h.Bookings.PaymentLink(r.Context(), *u, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"checkoutUrl": link})
}

// Catalog lists the choices the booking form offers.
func (h Handlers) Catalog(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]any{
		"eventTypes":    EventTypes,
		"extraServices": ExtraServices,
		"statuses":      Statuses,
		"roles":         []account.Role{account.RoleUser, account.RoleAdmin},
	})
}

func (h Handlers) writeError(w http.ResponseWriter, err error) {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", ve.Message)
	case errors.Is(err, ErrInvalidTransition):
		api.WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error())
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
	case errors.Is(err, ErrForbidden):
		api.WriteError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
	case errors.Is(err, ErrNotPayable):
		api.WriteError(w, http.StatusConflict, "NOT_PAYABLE", err.Error())
	case errors.Is(err, ErrSubmissionFailed):
		api.WriteError(w, http.StatusServiceUnavailable, "SUBMISSION_FAILED", "Failed to submit booking. Please try again.")
	default:
		if h.Log != nil {
			h.Log.Error("booking request failed", slog.String("error", err.Error()))
		}
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}
