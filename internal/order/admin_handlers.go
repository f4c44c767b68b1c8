package order

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deecee-hair/storefront-api/internal/common"
)

// AdminHandler serves the back-office order endpoints. Routes using it
// must sit behind the admin role middleware.
type AdminHandler struct {
	Repo *Repo
}

// List handles GET /api/v1/admin/orders.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	orders, err := h.Repo.ListAll(r.Context(), limit)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list orders", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orders})
}

// UpdateStatus handles PATCH /api/v1/admin/orders/{id}/status. The
// lifecycle only moves forward: pending to processing to shipped to
// delivered, with cancellation allowed before shipment.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if !in.Status.Valid() {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown order status", map[string]any{"status": in.Status})
		return
	}
	o, err := h.Repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "order not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load order", nil)
		return
	}
	if !o.Status.CanTransitionTo(in.Status) {
		common.JSONError(w, http.StatusConflict, "CONFLICT", "status transition not allowed", map[string]any{
			"from": o.Status,
			"to":   in.Status,
		})
		return
	}
	if err := h.Repo.UpdateStatus(r.Context(), o.ID, in.Status); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update order", nil)
		return
	}
	o.Status = in.Status
	common.JSON(w, http.StatusOK, map[string]any{"data": o})
}
