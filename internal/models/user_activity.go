package models

import "time"

type ActivityAction string

const (
	ActivityLogin          ActivityAction = "login"
	ActivityLogout         ActivityAction = "logout"
	ActivityRegister       ActivityAction = "register"
	ActivityProfileUpdate  ActivityAction = "profile_update"
	ActivityPasswordChange ActivityAction = "password_change"
	ActivityPasswordReset  ActivityAction = "password_reset"
	ActivityAvatarUpload   ActivityAction = "avatar_upload"
)

// UserActivity is an append-only audit record.
type UserActivity struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	UserID    uint64         `gorm:"not null;index" json:"user_id"`
	Action    ActivityAction `gorm:"type:varchar(30);not null" json:"action"`
	IPAddress string         `gorm:"type:varchar(45)" json:"ip_address"`
	Device    string         `gorm:"type:text" json:"device"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
