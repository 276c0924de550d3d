package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenTTL is the fixed lifetime of a session token. Expiry is not sliding.
const TokenTTL = 30 * 24 * time.Hour

type Token struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"token"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

func (t *Token) BeforeCreate(tx *gorm.DB) error {
	if t.Token == "" {
		t.Token = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.ExpiresAt.IsZero() {
		t.ExpiresAt = t.CreatedAt.Add(TokenTTL)
	}
	return nil
}

// ExpiredAt reports whether the token is no longer valid at now.
func (t *Token) ExpiredAt(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
