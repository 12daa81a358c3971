package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-reminder-api/internal/dto"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/middleware"
	"github.com/yukikurage/task-reminder-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and returns a bearer token for it.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Name                 string `json:"name" binding:"required,max=255"`
		Email                string `json:"email" binding:"required,email,max=255"`
		Password             string `json:"password" binding:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	user, token, err := h.authService.Register(services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, clientInfo(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  dto.ToUserDTO(*user),
		"token": token,
	})
}

// Login authenticates a user and replaces their tokens with a new one.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	user, token, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, clientInfo(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Login successful", gin.H{
		"user":  dto.ToUserDTO(*user),
		"token": token,
	})
}

// Logout revokes the token the request was made with.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.authService.Logout(identity, clientInfo(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Logout successful", nil)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "", gin.H{"data": dto.ToUserDTO(*user)})
}
