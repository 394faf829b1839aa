package models

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem est le document stocké dans Redis : une ligne par téléphone, jamais de doublon
type CartItem struct {
	PhoneID  string `json:"phone_id"`
	Quantity int    `json:"quantity"`
}

// CartItemView est la ligne de panier enrichie avec l'annonce (jointure en lecture)
type CartItemView struct {
	PhoneID  string  `json:"phone_id"`
	Title    string  `json:"title"`
	Brand    string  `json:"brand"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Quantity int     `json:"quantity"`
}

type CartView struct {
	UserID string         `json:"user_id"`
	Items  []CartItemView `json:"items"`
	Total  float64        `json:"total"`
}
