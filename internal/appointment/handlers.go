package appointment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/deecee-hair/storefront-api/internal/common"
	"github.com/deecee-hair/storefront-api/internal/obs"
)

// Handler serves the public booking endpoint.
type Handler struct {
	Repo *Repo
	Now  func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

type bookingInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Service  string `json:"service" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot string `json:"timeSlot" validate:"required"`
	Notes    string `json:"notes"`
}

// Create handles POST /api/v1/appointments. Booking is open to guests,
// no session required.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in bookingInput
	if err := common.DecodeAndValidate(r, &in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "invalid booking payload", common.ValidationDetails(err))
			return
		}
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	now := h.now()
	a := Appointment{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Service:   in.Service,
		Date:      in.Date,
		TimeSlot:  in.TimeSlot,
		Notes:     in.Notes,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Repo.Create(r.Context(), a); err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to book appointment", nil)
		return
	}
	obs.AppointmentsBookedTotal.Inc()
	common.JSON(w, http.StatusCreated, map[string]any{"data": a})
}

// AdminHandler serves the back-office appointment endpoints.
type AdminHandler struct {
	Repo *Repo
}

// List handles GET /api/v1/admin/appointments.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	appointments, err := h.Repo.List(r.Context(), limit)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to list appointments", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": appointments})
}

// UpdateStatus handles PATCH /api/v1/admin/appointments/{id}/status.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if !in.Status.Valid() {
		common.JSONError(w, http.StatusUnprocessableEntity, "VALIDATION", "unknown appointment status", map[string]any{"status": in.Status})
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.Repo.UpdateStatus(r.Context(), id, in.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "appointment not found", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to update appointment", nil)
		return
	}
	a, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to load appointment", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": a})
}
