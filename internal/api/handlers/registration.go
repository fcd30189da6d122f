package handlers

import (
	"net/http"

	"github.com/sleepharmony/landing/internal/api/dto"
	"github.com/sleepharmony/landing/internal/api/middleware"
	"github.com/sleepharmony/landing/internal/domain/notification"
	"github.com/sleepharmony/landing/internal/domain/registration"
	"github.com/sleepharmony/landing/internal/pkg/logger"
	"github.com/sleepharmony/landing/internal/pkg/utils"
	"github.com/sleepharmony/landing/internal/pkg/validator"
)

// MsgRegistrationSuccessful is returned with every successful registration
const MsgRegistrationSuccessful = "Registration successful"

// RegistrationHandler handles landing and wizard registrations
type RegistrationHandler struct {
	service    registration.Service
	dispatcher notification.Dispatcher
	logger     *logger.Logger
	validator  *validator.Validator
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(service registration.Service, dispatcher notification.Dispatcher, log *logger.Logger, val *validator.Validator) *RegistrationHandler {
	return &RegistrationHandler{
		service:    service,
		dispatcher: dispatcher,
		logger:     log,
		validator:  val,
	}
}

// Register finds or creates a user and records its answers and consent
// @Summary Register a user
// @Description Idempotent find-or-create by email. Records the qualification when complete and the email subscription on consent, then sends the welcome email in the background.
// @Tags Registration
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 200 {object} dto.RegisterResponse "Registration successful"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 500 {object} utils.ErrorResponse "Registration failed"
// @Router /register [post]
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if appErr := decodeAndValidate(w, r, h.validator, &req); appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	result, err := h.service.Register(r.Context(), req.ToDomain())
	if err != nil {
		utils.WriteErr(w, err, "Registration failed")
		return
	}

	addResultFields(w, result)
	utils.WriteJSON(w, http.StatusOK, dto.RegisterResponse{
		Success:       true,
		User:          result.User,
		Qualification: result.Qualification,
		Message:       MsgRegistrationSuccessful,
	})

	// The response is committed; the welcome email must not affect it.
	if !h.dispatcher.Dispatch(result.Welcome) {
		h.logger.With("user_id", result.User.ID).Warn("Welcome email dropped")
	}
}

// addResultFields tags the request log with the registration outcome
func addResultFields(w http.ResponseWriter, result *registration.Result) {
	middleware.AddLogField(w, "user_id", result.User.ID)
	middleware.AddLogField(w, "user_created", result.Created)
}
