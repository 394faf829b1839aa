package models

import (
	"time"

	"github.com/gocql/gocql"
)

type WishlistItem struct {
	UserID  string     `json:"user_id" db:"user_id"`
	PhoneID gocql.UUID `json:"phone_id" db:"phone_id"`
	AddedAt time.Time  `json:"added_at" db:"added_at"`
}

type Wishlist struct {
	UserID string         `json:"user_id"`
	Items  []PhoneSummary `json:"items"`
}
