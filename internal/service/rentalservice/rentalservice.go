package rentalservice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/npiscopo/cinerent/internal/domain"
)

const rentalPeriod = 7 * 24 * time.Hour

type Repo interface {
	Create(ctx context.Context, rental *domain.Rental) error
	Delete(ctx context.Context, id string) error
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Rental, error)
	MarkReturned(ctx context.Context, id, userID string) (bool, error)
}

type Ledger interface {
	Debit(ctx context.Context, ownerID string, amount decimal.Decimal, idempotencyKey string) (*domain.LedgerEntry, decimal.Decimal, error)
	Deposit(ctx context.Context, ownerID string, amount decimal.Decimal, currency, idempotencyKey string) (*domain.LedgerEntry, decimal.Decimal, error)
}

type Catalog interface {
	Exists(ctx context.Context, id int) (bool, error)
}

var (
	ErrNoItems       = errors.New("checkout requires at least one movie")
	ErrInvalidTotal  = errors.New("total amount must be positive")
	ErrMovieUnknown  = errors.New("unknown movie in checkout")
	ErrGrantFailed   = errors.New("failed to create rental")
	ErrRentalMissing = errors.New("rental not found")
)

type Service struct {
	repo    Repo
	ledger  Ledger
	catalog Catalog
}

func New(repo Repo, ledger Ledger, catalog Catalog) *Service {
	return &Service{
		repo:    repo,
		ledger:  ledger,
		catalog: catalog,
	}
}

type CheckoutResult struct {
	TransactionID string
	NewBalance    decimal.Decimal
	Rentals       []domain.Rental
}

// Checkout debits the wallet once for the full total and only then writes the
// rental grants. A grant failure after a committed debit triggers a
// compensating deposit and removes any grants already written, so the user is
// never charged for movies they did not receive and never keeps a grant from
// a failed purchase.
func (s *Service) Checkout(ctx context.Context, userID string, movieIDs []int, total decimal.Decimal) (*CheckoutResult, error) {
	if len(movieIDs) == 0 {
		return nil, ErrNoItems
	}
	if total.Cmp(decimal.Zero) <= 0 {
		return nil, ErrInvalidTotal
	}
	total = total.Round(2)

	for _, id := range movieIDs {
		exists, err := s.catalog.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			zap.L().Info("checkout rejected, unknown movie", zap.Int("movieID", id))
			return nil, ErrMovieUnknown
		}
	}

	// one debit per logical purchase; the minted key makes a retry harmless
	idempotencyKey := uuid.NewString()
	entry, newBalance, err := s.ledger.Debit(ctx, userID, total, idempotencyKey)
	if err != nil {
		return nil, err
	}

	rentals := buildRentals(userID, movieIDs, total)
	for i := range rentals {
		if err := s.repo.Create(ctx, &rentals[i]); err != nil {
			zap.L().Error("rental grant failed, rolling back checkout",
				zap.String("user", userID), zap.String("transactionID", entry.ID), zap.Error(err))
			s.compensate(ctx, userID, total, entry.ID, rentals[:i])
			return nil, ErrGrantFailed
		}
	}

	zap.L().Info("checkout completed",
		zap.String("user", userID), zap.Int("movies", len(movieIDs)), zap.String("total", total.StringFixed(2)))
	return &CheckoutResult{
		TransactionID: entry.ID,
		NewBalance:    newBalance,
		Rentals:       rentals,
	}, nil
}

// buildRentals splits the total over the movies at 2-dp precision, putting the
// rounding remainder on the first grant so the prices sum to the exact total.
func buildRentals(userID string, movieIDs []int, total decimal.Decimal) []domain.Rental {
	n := decimal.NewFromInt(int64(len(movieIDs)))
	perMovie := total.Div(n).RoundDown(2)
	first := total.Sub(perMovie.Mul(n.Sub(decimal.NewFromInt(1))))

	now := time.Now().UTC()
	rentals := make([]domain.Rental, len(movieIDs))
	for i, movieID := range movieIDs {
		price := perMovie
		if i == 0 {
			price = first
		}
		rentals[i] = domain.Rental{
			ID:       uuid.NewString(),
			UserID:   userID,
			MovieID:  movieID,
			Price:    price,
			RentedAt: now,
			DueAt:    now.Add(rentalPeriod),
			Status:   domain.RentalStatusActive,
		}
	}
	return rentals
}

// compensate unwinds a half-applied checkout: the full charge is refunded and
// every grant written before the failure is deleted, so the user neither pays
// for nor keeps movies from a failed purchase.
func (s *Service) compensate(ctx context.Context, userID string, total decimal.Decimal, transactionID string, granted []domain.Rental) {
	_, _, err := s.ledger.Deposit(ctx, userID, total, "", "compensate-"+transactionID)
	if err != nil {
		zap.L().Error("compensating credit failed, balance requires manual reconciliation",
			zap.String("user", userID), zap.String("transactionID", transactionID), zap.Error(err))
	}
	for i := range granted {
		if err := s.repo.Delete(ctx, granted[i].ID); err != nil {
			zap.L().Error("failed to roll back rental grant, requires manual cleanup",
				zap.String("rentalID", granted[i].ID), zap.String("transactionID", transactionID), zap.Error(err))
		}
	}
}

func (s *Service) GetRentals(ctx context.Context, userID string) ([]domain.Rental, error) {
	rentals, err := s.repo.ListActiveByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch rentals", zap.Error(err))
		return nil, err
	}
	return rentals, nil
}

func (s *Service) Return(ctx context.Context, id, userID string) error {
	returned, err := s.repo.MarkReturned(ctx, id, userID)
	if err != nil {
		zap.L().Error("failed to return rental", zap.Error(err))
		return err
	}
	if !returned {
		return ErrRentalMissing
	}
	return nil
}
