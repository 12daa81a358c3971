package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/services"
)

// PasswordHandler serves the forgotten-password flow.
type PasswordHandler struct {
	resets *services.PasswordResetService
}

func NewPasswordHandler(resets *services.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// ForgotPassword mails a reset link to a registered address.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	type ForgotPasswordRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	if err := h.resets.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Password reset link sent to your email", nil)
}

// ResetPassword sets a new password using a mailed token.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	type ResetPasswordRequest struct {
		Token                string `json:"token" binding:"required"`
		Email                string `json:"email" binding:"required,email"`
		Password             string `json:"password" binding:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	err := h.resets.ResetPassword(services.ResetPasswordInput{
		Token:    req.Token,
		Email:    req.Email,
		Password: req.Password,
	}, clientInfo(c))
	if errors.Is(err, services.ErrUserNotFound) {
		// Unknown addresses look the same as a bad token.
		err = services.ErrInvalidResetToken
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Password has been reset successfully", nil)
}

// IsTokenValid lets the front end check a link before showing the form.
func (h *PasswordHandler) IsTokenValid(c *gin.Context) {
	type TokenRequest struct {
		Token string `json:"token" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}

	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	valid, err := h.resets.TokenValid(req.Email, req.Token)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !valid {
		apierrors.BadRequest(c, "Token is invalid or expired")
		return
	}

	success(c, http.StatusOK, "Token is valid", nil)
}
