package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/npiscopo/cinerent/internal/domain"
)

type AccountRepo interface {
	List(ctx context.Context, limit uint32) ([]domain.Account, error)
}

type EntryRepo interface {
	SumByOwner(ctx context.Context, ownerID string) (decimal.Decimal, error)
}

type RentalRepo interface {
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Service periodically audits the stored balances against the signed sum of
// ledger entries and sweeps rentals past their due date. The stored balance
// stays authoritative; a mismatch is only reported, never auto-corrected.
type Service struct {
	accounts AccountRepo
	entries  EntryRepo
	rentals  RentalRepo

	limit      uint32
	workerPool WorkerPoolI
	interval   time.Duration

	inFlight sync.Map
}

func New(accounts AccountRepo, entries EntryRepo, rentals RentalRepo, interval time.Duration) *Service {
	return &Service{
		accounts:   accounts,
		entries:    entries,
		rentals:    rentals,
		limit:      1000,
		workerPool: NewWorkerPool(4),
		interval:   interval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Reconciler started", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping reconciler")
			return
		case <-ticker.C:
			s.expireRentals(ctx)
			s.checkAccounts(ctx)
		}
	}
}

func (s *Service) expireRentals(ctx context.Context) {
	if s.rentals == nil {
		return
	}
	swept, err := s.rentals.ExpireOverdue(ctx, time.Now().UTC())
	if err != nil {
		zap.L().Error("Failed to expire overdue rentals", zap.Error(err))
		return
	}
	if swept > 0 {
		zap.L().Info("Expired overdue rentals", zap.Int64("count", swept))
	}
}

func (s *Service) checkAccounts(ctx context.Context) {
	accounts, err := s.accounts.List(ctx, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch accounts for reconciliation", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, account := range accounts {
		account := account

		if _, loaded := s.inFlight.LoadOrStore(account.OwnerID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.inFlight.Delete(account.OwnerID)
				return s.checkAccount(ctx, account)
			})
			if err != nil {
				s.inFlight.Delete(account.OwnerID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error reconciling accounts", zap.Error(err))
	}
}

func (s *Service) checkAccount(ctx context.Context, account domain.Account) error {
	sum, err := s.entries.SumByOwner(ctx, account.OwnerID)
	if err != nil {
		return err
	}

	if !sum.Equal(account.Balance) {
		zap.L().Warn("Balance drift detected",
			zap.String("owner", account.OwnerID),
			zap.String("storedBalance", account.Balance.StringFixed(2)),
			zap.String("entrySum", sum.StringFixed(2)),
		)
	}
	return nil
}
