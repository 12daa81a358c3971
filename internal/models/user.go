package models

import "time"

type SocialProvider string

const (
	SocialProviderGoogle SocialProvider = "google"
	SocialProviderGitHub SocialProvider = "github"
)

type User struct {
	ID                uint64         `gorm:"primarykey" json:"id"`
	Name              string         `gorm:"type:varchar(255);not null" json:"name"`
	Email             string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash      *string        `gorm:"type:varchar(255)" json:"-"`
	SocialID          *string        `gorm:"type:varchar(255);index" json:"social_id,omitempty"`
	SocialType        SocialProvider `gorm:"type:varchar(20)" json:"social_type,omitempty"`
	Bio               *string        `gorm:"type:text" json:"bio"`
	Location          *string        `gorm:"type:varchar(255)" json:"location"`
	Avatar            *string        `gorm:"type:text" json:"avatar"`
	PasswordUpdatedAt *time.Time     `json:"password_updated_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	// Relations
	Tasks             []Task                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Activities        []UserActivity        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PushSubscriptions []PushSubscription    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tokens            []PersonalAccessToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsOAuthOnly reports whether the account was created through a social
// provider and has never had a password set by its owner.
func (u *User) IsOAuthOnly() bool {
	return u.SocialID != nil && *u.SocialID != "" && u.SocialType != "" && u.PasswordUpdatedAt == nil
}
