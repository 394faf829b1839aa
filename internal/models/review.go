package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Review struct {
	ID           gocql.UUID `json:"id" db:"review_id"`
	PhoneID      gocql.UUID `json:"phone_id" db:"phone_id"`
	ReviewerID   string     `json:"reviewer_id" db:"reviewer_id"`
	ReviewerName string     `json:"reviewer_name" db:"reviewer_name"`
	Rating       int        `json:"rating" db:"rating"` // 1-5
	Comment      string     `json:"comment" db:"comment"`
	Hidden       bool       `json:"hidden" db:"hidden"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

type PhoneRating struct {
	PhoneID       gocql.UUID `json:"phone_id"`
	AverageRating float64    `json:"average_rating"`
	TotalReviews  int        `json:"total_reviews"`
}
