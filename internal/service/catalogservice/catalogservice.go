package catalogservice

import (
	"context"
	"errors"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repo interface {
	GetByID(ctx context.Context, id int) (*domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
	Create(ctx context.Context, movie *domain.Movie) (*domain.Movie, error)
	Update(ctx context.Context, movie *domain.Movie) error
	Delete(ctx context.Context, id int) error
}

type RentalRepo interface {
	HasActiveForMovie(ctx context.Context, movieID int) (bool, error)
}

var (
	ErrMovieNotFound   = errors.New("movie not found")
	ErrMovieHasRentals = errors.New("cannot delete movie with active rentals")
)

type Service struct {
	repo    Repo
	rentals RentalRepo
}

func New(repo Repo, rentals RentalRepo) *Service {
	return &Service{
		repo:    repo,
		rentals: rentals,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Movie, error) {
	movies, err := s.repo.List(ctx)
	if err != nil {
		zap.L().Error("failed to list movies", zap.Error(err))
		return nil, err
	}
	return movies, nil
}

func (s *Service) Get(ctx context.Context, id int) (*domain.Movie, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if movie == nil {
		return nil, ErrMovieNotFound
	}
	return movie, nil
}

func (s *Service) Create(ctx context.Context, movie *domain.Movie) (*domain.Movie, error) {
	created, err := s.repo.Create(ctx, movie)
	if err != nil {
		zap.L().Error("can't create movie", zap.Error(err))
		return nil, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, movie *domain.Movie) (*domain.Movie, error) {
	existing, err := s.repo.GetByID(ctx, movie.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrMovieNotFound
	}
	if err := s.repo.Update(ctx, movie); err != nil {
		zap.L().Error("can't update movie", zap.Error(err))
		return nil, err
	}
	return movie, nil
}

// Delete refuses to remove a movie that still has active rentals.
func (s *Service) Delete(ctx context.Context, id int) error {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if movie == nil {
		return ErrMovieNotFound
	}

	hasActive, err := s.rentals.HasActiveForMovie(ctx, id)
	if err != nil {
		return err
	}
	if hasActive {
		return ErrMovieHasRentals
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) Exists(ctx context.Context, id int) (bool, error) {
	movie, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return movie != nil, nil
}

func (s *Service) Price(ctx context.Context, id int) (decimal.Decimal, error) {
	movie, err := s.Get(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return movie.Price, nil
}
