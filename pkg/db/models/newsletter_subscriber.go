package models

import (
	"time"

	"github.com/google/uuid"
)

// NewsletterSubscriber holds one deduplicated newsletter signup.
type NewsletterSubscriber struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email;not null;uniqueIndex"`
	Status       string    `gorm:"column:status;not null;default:'active'"`
	SubscribedAt time.Time `gorm:"column:subscribed_at;autoCreateTime"`
}
