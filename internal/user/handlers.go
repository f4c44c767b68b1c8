package user

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/deecee-hair/storefront-api/internal/common"
	"github.com/deecee-hair/storefront-api/internal/order"
)

// AddressHandler serves the address book endpoints. Routes using it must
// sit behind RequireAuth.
type AddressHandler struct {
	Repo *AddressRepo
	Now  func() time.Time
}

func (h *AddressHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

type addressInput struct {
	Label     string        `json:"label"`
	Address   order.Address `json:"address" validate:"required"`
	IsDefault bool          `json:"isDefault"`
}

// List handles GET /api/v1/me/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	addresses, err := h.Repo.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": addresses})
}

// Create handles POST /api/v1/me/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	now := h.now()
	created, err := h.Repo.Create(r.Context(), AddressRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Label:     in.Label,
		Address:   in.Address,
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": created})
}

// Update handles PUT /api/v1/me/addresses/{id}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	updated, err := h.Repo.Update(r.Context(), AddressRecord{
		ID:        chi.URLParam(r, "id"),
		UserID:    userID,
		Label:     in.Label,
		Address:   in.Address,
		IsDefault: in.IsDefault,
		UpdatedAt: h.now(),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": updated})
}

// Delete handles DELETE /api/v1/me/addresses/{id}.
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserID(r.Context())
	if err := h.Repo.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AddressHandler) decode(w http.ResponseWriter, r *http.Request) (addressInput, bool) {
	var in addressInput
	if err := common.DecodeAndValidate(r, &in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid address payload", common.ValidationDetails(err))
			return addressInput{}, false
		}
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return addressInput{}, false
	}
	return in, true
}

func (h *AddressHandler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrAddressNotFound) {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "address not found", nil)
		return
	}
	common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to process address", nil)
}
