package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sleepharmony/landing/internal/api/dto"
	"github.com/sleepharmony/landing/internal/domain/user"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/utils"
	"github.com/sleepharmony/landing/internal/pkg/validator"
)

// AdminHandler handles operator requests on registered users
type AdminHandler struct {
	service   user.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(service user.Service, log *logger.Logger, val *validator.Validator) *AdminHandler {
	return &AdminHandler{service: service, logger: log, validator: val}
}

// GetUser returns a user with its qualifications and subscriptions
// @Summary Look up a user by email
// @Tags Admin
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} utils.SuccessResponse{data=user.Profile} "User profile"
// @Failure 400 {object} utils.ErrorResponse "Missing email"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users [get]
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if err := h.validator.ValidateVar(email, "required,email"); err != nil {
		utils.WriteError(w, errors.BadRequest("A valid email query parameter is required"))
		return
	}

	profile, err := h.service.GetProfile(r.Context(), email)
	if err != nil {
		utils.WriteErr(w, err, "Failed to get user")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, profile)
}

// UpdateSubscription sets a user's subscription status
// @Summary Set a user's subscription status
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateSubscriptionRequest true "New status"
// @Success 200 {object} utils.SuccessResponse{data=user.User} "Updated user"
// @Failure 400 {object} utils.ErrorResponse "Invalid status"
// @Failure 404 {object} utils.ErrorResponse "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/subscription [put]
func (h *AdminHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSubscriptionRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	u, err := h.service.SetSubscriptionStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		utils.WriteErr(w, err, "Failed to update subscription status")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, u)
}
