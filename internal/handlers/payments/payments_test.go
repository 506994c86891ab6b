package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/dto"
	"github.com/npiscopo/cinerent/internal/service/ledgerservice"
	"github.com/npiscopo/cinerent/pkg/auth"
	"github.com/npiscopo/cinerent/pkg/utils"
)

const testOwnerID = "5d4f9a0c-1e2b-4c3d-8e7f-6a5b4c3d2e1f"

func NewMock(t *testing.T) (*PaymentsHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func newAuthedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	ctx := context.WithValue(req.Context(), auth.UserIDKey, testOwnerID)
	return req.WithContext(ctx)
}

func TestGetBalanceHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name            string
		prepareMock     func()
		expectedCode    int
		expectedBalance string
	}{
		{
			name: "Existing balance",
			prepareMock: func() {
				service.EXPECT().
					GetOrCreateBalance(gomock.Any(), testOwnerID).
					Return(decimal.RequireFromString("125.50"), nil)
			},
			expectedCode:    http.StatusOK,
			expectedBalance: "125.5",
		},
		{
			name: "First read creates an empty wallet",
			prepareMock: func() {
				service.EXPECT().
					GetOrCreateBalance(gomock.Any(), testOwnerID).
					Return(decimal.Zero, nil)
			},
			expectedCode:    http.StatusOK,
			expectedBalance: "0",
		},
		{
			name: "Store unavailable",
			prepareMock: func() {
				service.EXPECT().
					GetOrCreateBalance(gomock.Any(), testOwnerID).
					Return(decimal.Zero, ledgerservice.ErrUnavailable)
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := newAuthedRequest("GET", "/api/payments/balance", "")
			rr := httptest.NewRecorder()

			handler.GetBalance(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp dto.BalanceResponseDTO
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedBalance, resp.Balance.String())
			}
		})
	}
}

func TestDepositHandler(t *testing.T) {
	handler, service := NewMock(t)

	entry := &domain.LedgerEntry{
		ID:         "e1a2b3c4-d5e6-4f70-8a9b-0c1d2e3f4a5b",
		OwnerID:    testOwnerID,
		Kind:       domain.EntryKindDeposit,
		Amount:     decimal.RequireFromString("25"),
		OccurredAt: time.Now().UTC(),
	}

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful deposit",
			body: `{"amount":25,"currency":"EUR"}`,
			prepareMock: func() {
				service.EXPECT().
					Deposit(gomock.Any(), testOwnerID, decimal.RequireFromString("25"), "EUR", "").
					Return(entry, decimal.RequireFromString("25"), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Zero amount rejected",
			body: `{"amount":0}`,
			prepareMock: func() {
				service.EXPECT().
					Deposit(gomock.Any(), testOwnerID, decimal.RequireFromString("0"), "", "").
					Return(nil, decimal.Zero, ledgerservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "amount must be positive",
		},
		{
			name: "Negative amount rejected",
			body: `{"amount":-5}`,
			prepareMock: func() {
				service.EXPECT().
					Deposit(gomock.Any(), testOwnerID, decimal.RequireFromString("-5"), "", "").
					Return(nil, decimal.Zero, ledgerservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "amount must be positive",
		},
		{
			name:          "Invalid request body",
			body:          `{invalid json`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name: "Store unavailable",
			body: `{"amount":25}`,
			prepareMock: func() {
				service.EXPECT().
					Deposit(gomock.Any(), testOwnerID, decimal.RequireFromString("25"), "", "").
					Return(nil, decimal.Zero, ledgerservice.ErrUnavailable)
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := newAuthedRequest("POST", "/api/payments/deposit", tt.body)
			rr := httptest.NewRecorder()

			handler.Deposit(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				var resp dto.TransactionResponseDTO
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, entry.ID, resp.TransactionID)
				assert.Equal(t, "25", resp.NewBalance.String())
				assert.Equal(t, "Deposit completed successfully", resp.Message)
			}
		})
	}
}

func TestDebitHandler(t *testing.T) {
	handler, service := NewMock(t)

	entry := &domain.LedgerEntry{
		ID:         "f0e1d2c3-b4a5-4968-8776-655443322110",
		OwnerID:    testOwnerID,
		Kind:       domain.EntryKindDebit,
		Amount:     decimal.RequireFromString("9.99"),
		OccurredAt: time.Now().UTC(),
	}

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful debit",
			body: `{"amount":9.99}`,
			prepareMock: func() {
				service.EXPECT().
					Debit(gomock.Any(), testOwnerID, decimal.RequireFromString("9.99"), "").
					Return(entry, decimal.RequireFromString("15.01"), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Account not found",
			body: `{"amount":9.99}`,
			prepareMock: func() {
				service.EXPECT().
					Debit(gomock.Any(), testOwnerID, decimal.RequireFromString("9.99"), "").
					Return(nil, decimal.Zero, ledgerservice.ErrAccountNotFound)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "account not found",
		},
		{
			name: "Insufficient funds",
			body: `{"amount":10.01}`,
			prepareMock: func() {
				service.EXPECT().
					Debit(gomock.Any(), testOwnerID, decimal.RequireFromString("10.01"), "").
					Return(nil, decimal.Zero, ledgerservice.ErrInsufficientFunds)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "insufficient funds",
		},
		{
			name: "Invalid amount",
			body: `{"amount":-1}`,
			prepareMock: func() {
				service.EXPECT().
					Debit(gomock.Any(), testOwnerID, decimal.RequireFromString("-1"), "").
					Return(nil, decimal.Zero, ledgerservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "amount must be positive",
		},
		{
			name: "Store unavailable",
			body: `{"amount":9.99}`,
			prepareMock: func() {
				service.EXPECT().
					Debit(gomock.Any(), testOwnerID, decimal.RequireFromString("9.99"), "").
					Return(nil, decimal.Zero, errors.New("connection reset"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := newAuthedRequest("POST", "/api/payments/debit", tt.body)
			rr := httptest.NewRecorder()

			handler.Debit(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Message)
			} else {
				var resp dto.TransactionResponseDTO
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, entry.ID, resp.TransactionID)
				assert.Equal(t, "15.01", resp.NewBalance.String())
			}
		})
	}
}

func TestGetTransactionsHandler(t *testing.T) {
	handler, service := NewMock(t)

	entries := []domain.LedgerEntry{
		{
			ID:         "11111111-2222-4333-8444-555566667777",
			OwnerID:    testOwnerID,
			Kind:       domain.EntryKindDebit,
			Amount:     decimal.RequireFromString("9.99"),
			OccurredAt: time.Now().UTC(),
		},
		{
			ID:         "88888888-9999-4aaa-8bbb-ccccddddeeee",
			OwnerID:    testOwnerID,
			Kind:       domain.EntryKindDeposit,
			Amount:     decimal.RequireFromString("25"),
			OccurredAt: time.Now().UTC().Add(-time.Hour),
		},
	}

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedLen  int
	}{
		{
			name: "History returned newest first",
			prepareMock: func() {
				service.EXPECT().
					ListEntries(gomock.Any(), testOwnerID).
					Return(entries, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name: "No transactions",
			prepareMock: func() {
				service.EXPECT().
					ListEntries(gomock.Any(), testOwnerID).
					Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Store error",
			prepareMock: func() {
				service.EXPECT().
					ListEntries(gomock.Any(), testOwnerID).
					Return(nil, errors.New("query failed"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := newAuthedRequest("GET", "/api/payments/transactions", "")
			rr := httptest.NewRecorder()

			handler.GetTransactions(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedCode == http.StatusOK {
				var resp []dto.LedgerEntryResponseDTO
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, tt.expectedLen)
				assert.Equal(t, entries[0].ID, resp[0].ID)
			}
		})
	}
}
