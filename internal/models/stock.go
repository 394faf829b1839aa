package models

import (
	"time"

	"github.com/gocql/gocql"
)

// StockMovement trace chaque variation de stock (vente, restock, compensation)
type StockMovement struct {
	ID        gocql.UUID  `json:"id"`
	PhoneID   gocql.UUID  `json:"phone_id"`
	Type      string      `json:"type"` // "sale", "restock", "compensation", "adjustment"
	Quantity  int         `json:"quantity"`
	PrevStock int         `json:"prev_stock"`
	NewStock  int         `json:"new_stock"`
	OrderID   *gocql.UUID `json:"order_id,omitempty"`
	UserID    string      `json:"user_id"`
	CreatedAt time.Time   `json:"created_at"`
}
