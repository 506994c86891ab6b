package ledgerservice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/pg"
	"github.com/npiscopo/cinerent/pkg/validate"
)

type AccountRepo interface {
	GetByOwner(ctx context.Context, ownerID string) (*domain.Account, error)
	GetByOwnerForUpdate(ctx context.Context, ownerID string) (*domain.Account, error)
	Create(ctx context.Context, ownerID, number string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, ownerID string, balance decimal.Decimal) error
}

type EntryRepo interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) error
	GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.LedgerEntry, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.LedgerEntry, error)
}

type EventPublisher interface {
	PublishTransaction(ctx context.Context, entry domain.LedgerEntry, newBalance decimal.Decimal) error
}

var (
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnavailable       = errors.New("ledger store unavailable")
)

// Service owns per-identity balances and their append-only mutation log.
// Balance reads lazily materialize an account at zero; debits never do.
type Service struct {
	accounts AccountRepo
	entries  EntryRepo
	tx       pg.TXManager
	events   EventPublisher

	// serializes deposit/debit per owner; different owners never contend
	muMap map[string]*sync.Mutex
	mapMu sync.Mutex
}

func New(accounts AccountRepo, entries EntryRepo, tx pg.TXManager, events EventPublisher) *Service {
	return &Service{
		accounts: accounts,
		entries:  entries,
		tx:       tx,
		events:   events,
		muMap:    make(map[string]*sync.Mutex),
	}
}

func (s *Service) ownerLock(ownerID string) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if _, exists := s.muMap[ownerID]; !exists {
		s.muMap[ownerID] = &sync.Mutex{}
	}
	return s.muMap[ownerID]
}

func (s *Service) GetOrCreateBalance(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	account, err := s.accounts.GetByOwner(ctx, ownerID)
	if err != nil {
		zap.L().Error("failed to get account", zap.Error(err))
		return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if account == nil {
		account, err = s.accounts.Create(ctx, ownerID, validate.AccountNumber())
		if err != nil {
			zap.L().Error("failed to create account", zap.Error(err))
			return decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return account.Balance, nil
}

func (s *Service) Deposit(ctx context.Context, ownerID string, amount decimal.Decimal, currency, idempotencyKey string) (*domain.LedgerEntry, decimal.Decimal, error) {
	// round first: a sub-cent amount must fail validation, not the column check
	amount = amount.Round(2)
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, decimal.Zero, ErrInvalidAmount
	}

	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	if entry, balance, replayed, err := s.replay(ctx, ownerID, idempotencyKey); err != nil {
		return nil, decimal.Zero, err
	} else if replayed {
		return entry, balance, nil
	}

	description := "Deposit of " + amount.StringFixed(2)
	if currency != "" {
		description += " " + currency
	}

	var entry *domain.LedgerEntry
	var newBalance decimal.Decimal
	err := s.tx.Begin(ctx, func(ctx context.Context) error {
		account, err := s.accounts.GetByOwnerForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		if account == nil {
			account, err = s.accounts.Create(ctx, ownerID, validate.AccountNumber())
			if err != nil {
				return err
			}
		}

		newBalance = account.Balance.Add(amount)
		if err := s.accounts.UpdateBalance(ctx, ownerID, newBalance); err != nil {
			return err
		}

		entry = s.newEntry(ownerID, domain.EntryKindDeposit, amount, description, idempotencyKey)
		return s.entries.Create(ctx, entry)
	})
	if err != nil {
		zap.L().Error("deposit failed", zap.String("owner", ownerID), zap.Error(err))
		return nil, decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.publish(*entry, newBalance)
	return entry, newBalance, nil
}

func (s *Service) Debit(ctx context.Context, ownerID string, amount decimal.Decimal, idempotencyKey string) (*domain.LedgerEntry, decimal.Decimal, error) {
	amount = amount.Round(2)
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, decimal.Zero, ErrInvalidAmount
	}

	lock := s.ownerLock(ownerID)
	lock.Lock()
	defer lock.Unlock()

	if entry, balance, replayed, err := s.replay(ctx, ownerID, idempotencyKey); err != nil {
		return nil, decimal.Zero, err
	} else if replayed {
		return entry, balance, nil
	}

	var entry *domain.LedgerEntry
	var newBalance decimal.Decimal
	err := s.tx.Begin(ctx, func(ctx context.Context) error {
		account, err := s.accounts.GetByOwnerForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrAccountNotFound
		}
		if amount.GreaterThan(account.Balance) {
			return ErrInsufficientFunds
		}

		newBalance = account.Balance.Sub(amount)
		if err := s.accounts.UpdateBalance(ctx, ownerID, newBalance); err != nil {
			return err
		}

		entry = s.newEntry(ownerID, domain.EntryKindDebit, amount, "Debit of "+amount.StringFixed(2), idempotencyKey)
		return s.entries.Create(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrInsufficientFunds) {
			return nil, decimal.Zero, err
		}
		zap.L().Error("debit failed", zap.String("owner", ownerID), zap.Error(err))
		return nil, decimal.Zero, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.publish(*entry, newBalance)
	return entry, newBalance, nil
}

func (s *Service) ListEntries(ctx context.Context, ownerID string) ([]domain.LedgerEntry, error) {
	entries, err := s.entries.ListByOwner(ctx, ownerID)
	if err != nil {
		zap.L().Error("failed to fetch ledger entries", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return entries, nil
}

// replay resolves a previously applied operation by its idempotency key. The
// stored entry is returned together with the current balance; nothing is
// re-applied.
func (s *Service) replay(ctx context.Context, ownerID, key string) (*domain.LedgerEntry, decimal.Decimal, bool, error) {
	if key == "" {
		return nil, decimal.Zero, false, nil
	}
	entry, err := s.entries.GetByIdempotencyKey(ctx, ownerID, key)
	if err != nil {
		return nil, decimal.Zero, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if entry == nil {
		return nil, decimal.Zero, false, nil
	}

	account, err := s.accounts.GetByOwner(ctx, ownerID)
	if err != nil || account == nil {
		return nil, decimal.Zero, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	zap.L().Info("replayed ledger operation",
		zap.String("owner", ownerID), zap.String("idempotencyKey", key))
	return entry, account.Balance, true, nil
}

func (s *Service) newEntry(ownerID, kind string, amount decimal.Decimal, description, idempotencyKey string) *domain.LedgerEntry {
	entry := &domain.LedgerEntry{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		OccurredAt:  time.Now().UTC(),
	}
	if idempotencyKey != "" {
		entry.IdempotencyKey = &idempotencyKey
	}
	return entry
}

// publish hands the committed entry to the event stream. Failures are logged,
// never surfaced: the operation is already durable.
func (s *Service) publish(entry domain.LedgerEntry, newBalance decimal.Decimal) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.events.PublishTransaction(ctx, entry, newBalance); err != nil {
		zap.L().Error("failed to publish transaction event",
			zap.String("entryID", entry.ID), zap.Error(err))
	}
}
