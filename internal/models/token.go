package models

import "time"

// PersonalAccessToken tracks an issued bearer token so it can be revoked.
// ID is the JWT "jti" claim.
type PersonalAccessToken struct {
	ID         string     `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID     uint64     `gorm:"not null;index" json:"user_id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// PasswordResetToken holds the bcrypt hash of the single pending reset
// token for an email address.
type PasswordResetToken struct {
	Email     string    `gorm:"type:varchar(255);primarykey" json:"email"`
	TokenHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
