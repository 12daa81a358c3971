package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-reminder-api/internal/constants"
	"github.com/yukikurage/task-reminder-api/internal/dto"
	apierrors "github.com/yukikurage/task-reminder-api/internal/errors"
	"github.com/yukikurage/task-reminder-api/internal/middleware"
	"github.com/yukikurage/task-reminder-api/internal/services"
	"github.com/yukikurage/task-reminder-api/internal/utils"
)

// UserHandler serves the authenticated user's profile endpoints.
type UserHandler struct {
	userService     *services.UserService
	activityService *services.ActivityService
}

func NewUserHandler(userService *services.UserService, activityService *services.ActivityService) *UserHandler {
	return &UserHandler{
		userService:     userService,
		activityService: activityService,
	}
}

// UpdateProfile changes any of name, email, bio and location.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	type UpdateProfileRequest struct {
		Name     *string `json:"name" binding:"omitempty,max=255"`
		Email    *string `json:"email" binding:"omitempty,email,max=255"`
		Bio      *string `json:"bio" binding:"omitempty,max=1000"`
		Location *string `json:"location" binding:"omitempty,max=255"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	user, err := h.userService.UpdateProfile(userID, services.UpdateProfileInput{
		Name:     req.Name,
		Email:    req.Email,
		Bio:      req.Bio,
		Location: req.Location,
	}, clientInfo(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Profile updated successfully", gin.H{"user": dto.ToUserDTO(*user)})
}

// ChangePassword replaces the password of the current user.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	type ChangePasswordRequest struct {
		CurrentPassword      string `json:"current_password"`
		Password             string `json:"password" binding:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationFailed(c, err)
		return
	}

	err := h.userService.ChangePassword(userID, services.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		Password:        req.Password,
	}, clientInfo(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Password changed successfully", nil)
}

// DeleteAccount removes the current user and all of their data.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.userService.DeleteAccount(userID); err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Account deleted successfully", nil)
}

// UploadAvatar accepts a multipart "avatar" image.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		apierrors.UnprocessableEntity(c, "avatar", "The avatar field is required.")
		return
	}
	if header.Size > constants.MaxAvatarBytes {
		apierrors.UnprocessableEntity(c, "avatar", fmt.Sprintf("The avatar field must not be greater than %d kilobytes.", constants.MaxAvatarBytes>>10))
		return
	}

	file, err := header.Open()
	if err != nil {
		apierrors.BadRequest(c, "Invalid avatar upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxAvatarBytes))
	if err != nil {
		apierrors.BadRequest(c, "Invalid avatar upload")
		return
	}

	avatar, err := h.userService.UploadAvatar(userID, data, clientInfo(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	success(c, http.StatusOK, "Avatar uploaded successfully", gin.H{"avatar": avatar})
}

// Activity lists the current user's activity log, newest first.
func (h *UserHandler) Activity(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	activities, total, err := h.activityService.List(userID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToActivityListResponse(activities, params, total))
}
