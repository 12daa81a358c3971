package models

import "time"

// PushSubscription is a browser Web Push endpoint registered by a user.
type PushSubscription struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_push_subscriptions_user_endpoint" json:"user_id"`
	Endpoint  string    `gorm:"type:varchar(500);not null;uniqueIndex:idx_push_subscriptions_user_endpoint" json:"endpoint"`
	P256dhKey string    `gorm:"type:varchar(255);not null" json:"p256dh_key"`
	AuthToken string    `gorm:"type:varchar(255);not null" json:"auth_token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
