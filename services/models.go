package services

import (
	"bytes"
	"encoding/json"
)

// Product as served by the product service.
type Product struct {
	ID        string  `json:"_id,omitempty"`
	Name      string  `json:"name"`
	Desc      string  `json:"desc"`
	Img       string  `json:"img"`  // Already-hosted image URL
	Type      string  `json:"type"` // One of catalog.Categories
	Stock     int     `json:"stock"`
	Price     float64 `json:"price"`
	Available bool    `json:"available"`
	Seller    string  `json:"seller,omitempty"` // Seller user ID
}

// ProductRef identifies a product in request bodies.
type ProductRef struct {
	ID string `json:"_id"`
}

// Profile is the user service's profile document.
type Profile struct {
	Name       string        `json:"name"`
	Gender     string        `json:"gender"`
	Street     string        `json:"street"`
	PostalCode string        `json:"postalCode"`
	City       string        `json:"city"`
	Country    string        `json:"country"`
	Wishlist   []WishlistRef `json:"wishlist,omitempty"`
}

// WishlistRef is a product ID listed in a profile's wishlist. The user service
// sends either the bare ID or a populated product object.
type WishlistRef string

func (w *WishlistRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var ref ProductRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*w = WishlistRef(ref.ID)
		return nil
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*w = WishlistRef(id)
	return nil
}

// WishlistIDs returns the wishlist product IDs of the profile.
func (p *Profile) WishlistIDs() []string {
	ids := make([]string, 0, len(p.Wishlist))
	for _, ref := range p.Wishlist {
		if ref != "" {
			ids = append(ids, string(ref))
		}
	}
	return ids
}

// CartItem is one line of a shopping-service cart document.
type CartItem struct {
	ID      string  `json:"_id,omitempty"`
	Product Product `json:"product"`
	Amount  int     `json:"amount"`
}

// Cart is a shopping-service cart document.
type Cart struct {
	ID    string     `json:"_id,omitempty"`
	Items []CartItem `json:"items"`
}

// OrderItem carries only the product identifier and quantity.
type OrderItem struct {
	Product ProductRef `json:"product"`
	Amount  int        `json:"amount"`
}

// Order statuses.
const (
	OrderStatusPending = "Pending"
)

// Order is the order creation request.
type Order struct {
	Items  []OrderItem `json:"items"`
	Amount string      `json:"amount"` // Total formatted to 2 decimals
	Status string      `json:"status"`
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Role     string `json:"role"` // Buyer or Seller
}

// Credentials are exchanged for a bearer token.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type sellerResponse struct {
	Name string `json:"name"`
}

type cartMutation struct {
	Product ProductRef `json:"product"`
	Amount  int        `json:"amount"`
}
