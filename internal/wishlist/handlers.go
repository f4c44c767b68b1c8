package wishlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/deecee-hair/storefront-api/internal/catalog"
	"github.com/deecee-hair/storefront-api/internal/common"
)

// Handler serves the wishlist endpoints. Routes using it must sit
// behind RequireAuth.
type Handler struct {
	Svc *Service
}

// List handles GET /api/v1/me/wishlist.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	products, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load wishlist", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// Add handles PUT /api/v1/me/wishlist/{productID}.
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Add(r.Context(), userID, id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update wishlist", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/v1/me/wishlist/{productID}.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	id, ok := productID(w, r)
	if !ok {
		return
	}
	if err := h.Svc.Remove(r.Context(), userID, id); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update wishlist", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "product id must be an integer", nil)
		return 0, false
	}
	return id, true
}
