package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deecee-hair/storefront-api/internal/common"
	"github.com/deecee-hair/storefront-api/internal/promo"
)

// Handler wires the cart service to HTTP.
type Handler struct {
	Svc             *Service
	DefaultCurrency string
}

func (h *Handler) fxOf(r *http.Request) string {
	if code := r.URL.Query().Get("currency"); code != "" {
		return code
	}
	if h.DefaultCurrency != "" {
		return h.DefaultCurrency
	}
	return "USD"
}

// Create handles POST /api/v1/carts. The cart is bound to the
// authenticated user when a session is present.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	c, err := h.Svc.Create(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": c})
}

// Get handles GET /api/v1/carts/{cartID}, returning the priced cart.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Get(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.Price(c, h.fxOf(r))})
}

// AddLine handles POST /api/v1/carts/{cartID}/lines.
func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var in LineInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	c, err := h.Svc.AddLine(r.Context(), chi.URLParam(r, "cartID"), in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": h.Svc.Price(c, h.fxOf(r))})
}

// UpdateLine handles PATCH /api/v1/carts/{cartID}/lines/{lineID}.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	c, err := h.Svc.UpdateQty(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "lineID"), in.Qty)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.Price(c, h.fxOf(r))})
}

// RemoveLine handles DELETE /api/v1/carts/{cartID}/lines/{lineID}.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.RemoveLine(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "lineID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.Price(c, h.fxOf(r))})
}

// Clear handles DELETE /api/v1/carts/{cartID}.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Clear(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": c})
}

// ApplyPromo handles POST /api/v1/carts/{cartID}/promo.
func (h *Handler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	c, err := h.Svc.ApplyPromo(r.Context(), chi.URLParam(r, "cartID"), in.Code)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.Price(c, h.fxOf(r))})
}

// RemovePromo handles DELETE /api/v1/carts/{cartID}/promo.
func (h *Handler) RemovePromo(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.RemovePromo(r.Context(), chi.URLParam(r, "cartID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": h.Svc.Price(c, h.fxOf(r))})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrLineNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart line not found", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", err.Error(), nil)
	case errors.Is(err, promo.ErrInvalidCode):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_PROMO", "promo code is not valid", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process cart", nil)
	}
}
