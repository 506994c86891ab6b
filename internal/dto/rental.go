package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutRequestDTO struct {
	MovieIDs    []int           `json:"movieIds"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type CheckoutResponseDTO struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transactionId,omitempty"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	RentalIDs     []string        `json:"rentalIds,omitempty"`
}

type RentalResponseDTO struct {
	ID            string          `json:"id"`
	MovieID       int             `json:"movieId"`
	Price         decimal.Decimal `json:"price"`
	RentedAt      time.Time       `json:"rentedAt"`
	DueAt         time.Time       `json:"dueAt"`
	Status        string          `json:"status"`
	DaysRemaining int             `json:"daysRemaining"`
}
