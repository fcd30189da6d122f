package handlers

import (
	"net/http"

	"github.com/sleepharmony/landing/internal/api/dto"
	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/pkg/errors"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/utils"
	"github.com/sleepharmony/landing/internal/pkg/validator"
	"github.com/sleepharmony/landing/internal/services"
)

// WelcomeHandler handles welcome email requests
type WelcomeHandler struct {
	service   notification.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewWelcomeHandler creates a new welcome email handler
func NewWelcomeHandler(service notification.Service, log *logger.Logger, val *validator.Validator) *WelcomeHandler {
	return &WelcomeHandler{service: service, logger: log, validator: val}
}

// Send renders and sends a welcome email
// @Summary Send a welcome email
// @Description Sends the onboarding email when the qualification is complete, the interest email otherwise.
// @Tags Welcome
// @Accept json
// @Produce json
// @Param request body dto.WelcomeEmailRequest true "Welcome email payload"
// @Success 200 {object} dto.WelcomeEmailResponse "Email sent"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Missing or invalid service token"
// @Failure 500 {object} utils.ErrorResponse "Email could not be sent"
// @Security BearerAuth
// @Router /welcome-email [post]
func (h *WelcomeHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req dto.WelcomeEmailRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	id, err := h.service.SendWelcome(r.Context(), req.ToDomain())
	if err != nil {
		// Callers only ever see the generic failure
		utils.WriteError(w, errors.EmailDeliveryError(services.MsgWelcomeFailed, err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.WelcomeEmailResponse{
		Success: true,
		Message: services.MsgWelcomeSent,
		EmailID: id,
	})
}
