package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/npiscopo/cinerent/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var (
	ErrLedgerUnauthorized = errors.New("ledger: unauthorized")
	ErrLedgerRejected     = errors.New("ledger: request rejected")
	ErrLedgerUnavailable  = errors.New("ledger: unavailable")
)

// LedgerClient talks to the payments REST surface of the ledger service.
// Balance reads retry with backoff; deposits and debits are sent at most once
// per call, callers supply an idempotency key if they intend to retry.
type LedgerClient struct {
	base   string
	client *HTTPClient
}

func NewLedgerClient(base string, client *HTTPClient) *LedgerClient {
	return &LedgerClient{base: base, client: client}
}

func authHeaders(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

func (c *LedgerClient) Balance(ctx context.Context, token string) (decimal.Decimal, error) {
	url := c.base + "/api/payments/balance"

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		statusCode, body, _, err := c.client.Get(ctx, url, authHeaders(token))
		switch {
		case err != nil || statusCode >= http.StatusInternalServerError:
			lastErr = fmt.Errorf("%w: attempt %d: status %d: %v", ErrLedgerUnavailable, attempt, statusCode, err)
			select {
			case <-ctx.Done():
				return decimal.Zero, ctx.Err()
			case <-time.After(retryInterval * time.Duration(attempt)):
			}
			continue
		case statusCode == http.StatusUnauthorized:
			return decimal.Zero, ErrLedgerUnauthorized
		case statusCode != http.StatusOK:
			return decimal.Zero, fmt.Errorf("%w: status %d", ErrLedgerRejected, statusCode)
		}

		var resp dto.BalanceResponseDTO
		if err := json.Unmarshal(body, &resp); err != nil {
			return decimal.Zero, fmt.Errorf("ledger: can't parse balance response: %w", err)
		}
		return resp.Balance, nil
	}
	return decimal.Zero, lastErr
}

func (c *LedgerClient) Deposit(ctx context.Context, token string, req dto.DepositRequestDTO) (*dto.TransactionResponseDTO, error) {
	return c.post(ctx, token, c.base+"/api/payments/deposit", req)
}

func (c *LedgerClient) Debit(ctx context.Context, token string, req dto.DebitRequestDTO) (*dto.TransactionResponseDTO, error) {
	return c.post(ctx, token, c.base+"/api/payments/debit", req)
}

func (c *LedgerClient) post(ctx context.Context, token, url string, req any) (*dto.TransactionResponseDTO, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("ledger: can't marshal request: %w", err)
	}

	statusCode, body, err := c.client.Post(ctx, url, authHeaders(token), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		return nil, ErrLedgerUnauthorized
	case statusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d", ErrLedgerUnavailable, statusCode)
	case statusCode != http.StatusOK:
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &errResp)
		return nil, fmt.Errorf("%w: %s", ErrLedgerRejected, errResp.Message)
	}

	var resp dto.TransactionResponseDTO
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("ledger: can't parse transaction response: %w", err)
	}
	return &resp, nil
}
