package models

// CartItem est une ligne de panier telle qu'envoyée par le client au checkout
type CartItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Location string  `json:"location"`
}

// UserInfo identifie l'acheteur dans la requête de checkout
type UserInfo struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
