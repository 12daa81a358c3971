package dto

import (
	"time"

	"github.com/yukikurage/task-reminder-api/internal/models"
	"github.com/yukikurage/task-reminder-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID                uint64                `json:"id"`
	Name              string                `json:"name"`
	Email             string                `json:"email"`
	Bio               *string               `json:"bio"`
	Location          *string               `json:"location"`
	Avatar            *string               `json:"avatar"`
	SocialType        models.SocialProvider `json:"social_type,omitempty"`
	PasswordUpdatedAt *time.Time            `json:"password_updated_at"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// ActivityDTO represents an activity log entry in API responses
type ActivityDTO struct {
	ID        uint64                `json:"id"`
	UserID    uint64                `json:"user_id"`
	Action    models.ActivityAction `json:"action"`
	IPAddress string                `json:"ip_address"`
	Device    string                `json:"device"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ActivityListResponse represents a paginated activity log
type ActivityListResponse struct {
	Data []ActivityDTO         `json:"data"`
	Meta utils.PaginationMeta `json:"meta"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:                user.ID,
		Name:              user.Name,
		Email:             user.Email,
		Bio:               user.Bio,
		Location:          user.Location,
		Avatar:            user.Avatar,
		SocialType:        user.SocialType,
		PasswordUpdatedAt: user.PasswordUpdatedAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}

// ToActivityListResponse converts a page of activities
func ToActivityListResponse(activities []models.UserActivity, params utils.PaginationParams, total int64) ActivityListResponse {
	items := make([]ActivityDTO, len(activities))
	for i, a := range activities {
		items[i] = ActivityDTO{
			ID:        a.ID,
			UserID:    a.UserID,
			Action:    a.Action,
			IPAddress: a.IPAddress,
			Device:    a.Device,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		}
	}

	return ActivityListResponse{
		Data: items,
		Meta: params.Meta(len(activities), total),
	}
}
