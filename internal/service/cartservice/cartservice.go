package cartservice

import (
	"context"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertItem(ctx context.Context, item *domain.CartItem) error
	Clear(ctx context.Context, userID string) error
}

// Catalog resolves the current movie price; carts capture it at add time.
type Catalog interface {
	Price(ctx context.Context, id int) (decimal.Decimal, error)
}

type Service struct {
	repo    Repo
	catalog Catalog
}

func New(repo Repo, catalog Catalog) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
	}
}

func (s *Service) Add(ctx context.Context, userID string, movieID int) (*domain.Cart, error) {
	price, err := s.catalog.Price(ctx, movieID)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		zap.L().Error("failed to resolve cart", zap.Error(err))
		return nil, err
	}

	item := &domain.CartItem{
		CartID:  cart.ID,
		MovieID: movieID,
		Price:   price,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		zap.L().Error("failed to add cart item", zap.Error(err))
		return nil, err
	}

	return s.repo.GetOrCreate(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get cart", zap.Error(err))
		return nil, err
	}
	return cart, nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		zap.L().Error("failed to clear cart", zap.Error(err))
		return err
	}
	return nil
}
