package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/dto"
	"github.com/npiscopo/cinerent/internal/service/ledgerservice"
	"github.com/npiscopo/cinerent/pkg/auth"
	"github.com/npiscopo/cinerent/pkg/utils"
)

type Service interface {
	GetOrCreateBalance(ctx context.Context, ownerID string) (decimal.Decimal, error)
	Deposit(ctx context.Context, ownerID string, amount decimal.Decimal, currency, idempotencyKey string) (*domain.LedgerEntry, decimal.Decimal, error)
	Debit(ctx context.Context, ownerID string, amount decimal.Decimal, idempotencyKey string) (*domain.LedgerEntry, decimal.Decimal, error)
	ListEntries(ctx context.Context, ownerID string) ([]domain.LedgerEntry, error)
}

type PaymentsHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *PaymentsHandler {
	return &PaymentsHandler{
		ledgerService: ledgerService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current wallet balance
//	@Description	Retrieve the wallet balance for the authenticated user, creating an empty wallet on first use.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Current balance"
//	@Failure		401	{object}	utils.Response			"User not authorized"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/payments/balance [get]
func (h *PaymentsHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Context().Value(auth.UserIDKey).(string)

	balance, err := h.ledgerService.GetOrCreateBalance(r.Context(), ownerID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Balance: balance,
	})
}

// Deposit godoc
//
//	@Summary		Deposit funds
//	@Description	Credit the wallet of the authenticated user and record a ledger entry.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit request payload"
//	@Success		200		{object}	dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Amount must be positive"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/deposit [post]
func (h *PaymentsHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Context().Value(auth.UserIDKey).(string)

	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, newBalance, err := h.ledgerService.Deposit(r.Context(), ownerID, req.Amount, req.Currency, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TransactionResponseDTO{
		TransactionID: entry.ID,
		NewBalance:    newBalance,
		Message:       "Deposit completed successfully",
	})
}

// Debit godoc
//
//	@Summary		Debit funds
//	@Description	Charge the wallet of the authenticated user. Fails when the wallet is missing or underfunded.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DebitRequestDTO	true	"Debit request payload"
//	@Success		200		{object}	dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount, missing account or insufficient funds"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/debit [post]
func (h *PaymentsHandler) Debit(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Context().Value(auth.UserIDKey).(string)

	var req dto.DebitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, newBalance, err := h.ledgerService.Debit(r.Context(), ownerID, req.Amount, req.IdempotencyKey)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidAmount),
			errors.Is(err, ledgerservice.ErrAccountNotFound),
			errors.Is(err, ledgerservice.ErrInsufficientFunds):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.TransactionResponseDTO{
		TransactionID: entry.ID,
		NewBalance:    newBalance,
		Message:       "Debit completed successfully",
	})
}

// GetTransactions godoc
//
//	@Summary		Get transaction history
//	@Description	List ledger entries for the authenticated user, newest first.
//	@Tags			Payments
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.LedgerEntryResponseDTO	"Transaction history"
//	@Success		204	{object}	utils.Response				"No transactions"
//	@Failure		401	{object}	utils.Response				"User not authorized"
//	@Failure		500	{object}	utils.Response				"Internal server error"
//	@Router			/api/payments/transactions [get]
func (h *PaymentsHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	ownerID := r.Context().Value(auth.UserIDKey).(string)

	entries, err := h.ledgerService.ListEntries(r.Context(), ownerID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	if len(entries) == 0 {
		utils.RespondWithError(w, http.StatusNoContent, "Transactions not found")
		return
	}

	response := make([]dto.LedgerEntryResponseDTO, len(entries))
	for i, entry := range entries {
		response[i] = dto.LedgerEntryResponseDTO{
			ID:          entry.ID,
			Kind:        entry.Kind,
			Amount:      entry.Amount,
			Description: entry.Description,
			OccurredAt:  entry.OccurredAt,
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, response)
}
