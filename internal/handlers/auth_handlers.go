package handlers

import (
	"net/http"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/services"
	"github.com/entescheme/ente-api/internal/utils"
	"github.com/gin-gonic/gin"
)

// MessageResponse acknowledges an operation without a resource body.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandlers serves registration, login and email verification.
type AuthHandlers struct {
	logger *logging.SafeLogger
	users  *services.UserService
	otps   *services.OTPService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(logger *logging.SafeLogger, users *services.UserService, otps *services.OTPService) *AuthHandlers {
	return &AuthHandlers{
		logger: logger,
		users:  users,
		otps:   otps,
	}
}

// Register godoc
// @Summary Register an account
// @Description Creates a citizen account. The email must be verified separately via OTP.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Account details"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AdminLogin godoc
// @Summary Log in as an administrator
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/admin/login [post]
func (h *AuthHandlers) AdminLogin(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.users.AdminLogin(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, "admin login", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SendOTP godoc
// @Summary Email a one-time code
// @Description Replaces any previous code for the address. Resends are throttled.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.SendOTPRequest true "Email address"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /auth/otp/send [post]
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req models.SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.otps.SendOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, "send otp", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "OTP sent"})
}

// VerifyOTP godoc
// @Summary Verify a one-time code
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.VerifyOTPRequest true "Email and code"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/otp/verify [post]
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.otps.VerifyOTP(c.Request.Context(), req.Email, req.Code); err != nil {
		respondError(c, h.logger, "verify otp", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "OTP verified"})
}

// VerifyEmail godoc
// @Summary Mark an account's email as verified
// @Description Requires a successful OTP verification for the same address.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.VerifyEmailRequest true "Email address"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /auth/verify-email [post]
func (h *AuthHandlers) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := utils.ValidateStruct(&req).Err(); err != nil {
		respondError(c, h.logger, "verify email", err)
		return
	}

	if err := h.users.MarkEmailVerified(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, "verify email", err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Email verified"})
}

// GetUser godoc
// @Summary Get an account
// @Description Returns the account without its password hash. Self or admin only.
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{userId} [get]
func (h *AuthHandlers) GetUser(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, h.logger, "get user", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
