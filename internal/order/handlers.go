package order

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deecee-hair/storefront-api/internal/common"
)

// ErrBadTransition indicates a status change the lifecycle forbids.
var ErrBadTransition = errors.New("status transition not allowed")

// Handler serves the order endpoints for the authenticated shopper.
type Handler struct {
	Repo *Repo
}

// List handles GET /api/v1/orders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	orders, err := h.Repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orders})
}

// Get handles GET /api/v1/orders/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	o, err := h.Repo.GetForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}

// Cancel handles POST /api/v1/orders/{id}/cancel. Shoppers may cancel
// only while the order is still pending.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	o, err := h.Repo.GetForUser(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if o.Status != StatusPending {
		h.writeError(w, ErrBadTransition)
		return
	}
	if err := h.Repo.UpdateStatus(r.Context(), o.ID, StatusCancelled); err != nil {
		h.writeError(w, err)
		return
	}
	o.Status = StatusCancelled
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
	case errors.Is(err, ErrBadTransition):
		common.JSONError(w, http.StatusConflict, "CONFLICT", "order can no longer be cancelled", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process order", nil)
	}
}
