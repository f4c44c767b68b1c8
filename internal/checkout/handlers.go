package checkout

import (
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/deecee-hair/storefront-api/internal/cart"
	"github.com/deecee-hair/storefront-api/internal/common"
)

// Handler exposes the checkout endpoint.
type Handler struct {
	Svc *Service
}

// Create handles POST /api/v1/checkout. Requires an authenticated user.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required", nil)
		return
	}
	var in Input
	if err := common.DecodeAndValidate(r, &in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid checkout payload", common.ValidationDetails(err))
			return
		}
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	o, err := h.Svc.Create(r.Context(), userID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": o})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "cart not found", nil)
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "cart is empty", nil)
	case errors.Is(err, ErrCartOwnership):
		common.JSONError(w, http.StatusForbidden, "FORBIDDEN", "cart does not belong to user", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to complete checkout", nil)
	}
}
