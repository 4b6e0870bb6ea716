package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"regtrack/internal/middleware"
	"regtrack/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService          service.AuthService
	passwordResetService service.PasswordResetService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, passwordResetService service.PasswordResetService) *AuthHandler {
	return &AuthHandler{authService: authService, passwordResetService: passwordResetService}
}

// Login handles POST /api/v1/auth/login
// @Summary Log in
// @Description Authenticate with company slug, email and password. Returns tokens, or a challenge ID when a one-time code is required.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Response{data=service.LoginResult} "Tokens or OTP challenge"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Invalid credentials"
// @Failure 403 {object} ErrorResponseBody "Company or user inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input service.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// VerifyOTP handles POST /api/v1/auth/otp/verify
// @Summary Verify a login code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Challenge and code"
// @Success 200 {object} Response{data=service.TokenPair} "Token pair"
// @Failure 400 {object} ErrorResponseBody "Validation error"
// @Failure 401 {object} ErrorResponseBody "Invalid or expired code"
// @Failure 429 {object} ErrorResponseBody "Too many attempts"
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var input service.VerifyOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tokenPair, err := h.authService.VerifyOTP(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tokenPair)
}

// ResendOTP handles POST /api/v1/auth/otp/resend
// @Summary Resend a login code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResendOTPRequest true "Challenge"
// @Success 200 {object} Response{data=MessageResponse} "Code sent"
// @Failure 401 {object} ErrorResponseBody "Challenge invalid or expired"
// @Failure 429 {object} ErrorResponseBody "Resend limit reached"
// @Router /auth/otp/resend [post]
func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var input service.ResendOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.authService.ResendOTP(c.Request.Context(), input.ChallengeID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "a new code has been sent"})
}

// RefreshToken handles POST /api/v1/auth/refresh
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Response{data=service.TokenPair} "Token pair"
// @Failure 401 {object} ErrorResponseBody "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input service.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tokenPair, err := h.authService.RefreshToken(c.Request.Context(), input.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tokenPair)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password
// @Summary Request a password reset
// @Description Always returns 200 so account existence is not revealed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Company slug and email"
// @Success 200 {object} Response{data=MessageResponse} "Accepted"
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var input service.ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.passwordResetService.ForgotPassword(c.Request.Context(), input); err != nil {
		middleware.GetLogger(c).Warn("forgot-password failed", zap.Error(err))
	}

	RespondOK(c, gin.H{"message": "if an account with that email exists, a password reset email has been sent"})
}

// ResetPassword handles POST /api/v1/auth/reset-password
// @Summary Reset a password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset token and new password"
// @Success 200 {object} Response{data=MessageResponse} "Password reset"
// @Failure 401 {object} ErrorResponseBody "Invalid token"
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input service.ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.passwordResetService.ResetPassword(c.Request.Context(), input); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "password has been reset successfully"})
}
