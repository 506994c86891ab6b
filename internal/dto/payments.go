package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type BalanceResponseDTO struct {
	Balance decimal.Decimal `json:"balance" example:"125.5"`
}

type DepositRequestDTO struct {
	Amount         decimal.Decimal `json:"amount" example:"25"`
	Currency       string          `json:"currency,omitempty" example:"EUR"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty" example:"b8a9f715-dbdb-4c3c-9b6c-4f8160d6e5f0"`
}

type DebitRequestDTO struct {
	Amount         decimal.Decimal `json:"amount" example:"9.99"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty" example:"b8a9f715-dbdb-4c3c-9b6c-4f8160d6e5f0"`
}

type TransactionResponseDTO struct {
	TransactionID string          `json:"transactionId"`
	NewBalance    decimal.Decimal `json:"newBalance"`
	Message       string          `json:"message"`
}

type LedgerEntryResponseDTO struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurredAt"`
}
