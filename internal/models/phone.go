package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Phone struct {
	ID        gocql.UUID `json:"id" db:"phone_id"`
	Title     string     `json:"title" db:"title"`
	Brand     string     `json:"brand" db:"brand"`
	Image     string     `json:"image" db:"image"`
	Price     float64    `json:"price" db:"price"`
	Stock     int        `json:"stock" db:"stock"`
	SellerID  string     `json:"seller_id" db:"seller_id"`
	Disabled  bool       `json:"disabled" db:"disabled"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// PhoneSummary est la projection renvoyée dans le panier, la wishlist et les commandes
type PhoneSummary struct {
	ID    gocql.UUID `json:"id"`
	Title string     `json:"title"`
	Brand string     `json:"brand"`
	Image string     `json:"image"`
	Price float64    `json:"price"`
	Stock int        `json:"stock"`
}

func (p Phone) Summary() PhoneSummary {
	return PhoneSummary{
		ID:    p.ID,
		Title: p.Title,
		Brand: p.Brand,
		Image: p.Image,
		Price: p.Price,
		Stock: p.Stock,
	}
}
