package dto

import "github.com/shopspring/decimal"

type AddToCartRequestDTO struct {
	MovieID int `json:"movieId" example:"3"`
}

type CartItemDTO struct {
	MovieID  int             `json:"movieId"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type CartResponseDTO struct {
	CartID     int             `json:"cartId"`
	TotalItems int             `json:"totalItems"`
	CartTotal  decimal.Decimal `json:"cartTotal"`
	Items      []CartItemDTO   `json:"items"`
}
