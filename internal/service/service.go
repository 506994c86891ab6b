package service

import (
	"github.com/npiscopo/cinerent/internal/config"
	"github.com/npiscopo/cinerent/internal/handlers/auth"
	"github.com/npiscopo/cinerent/internal/handlers/cart"
	"github.com/npiscopo/cinerent/internal/handlers/movies"
	"github.com/npiscopo/cinerent/internal/handlers/payments"
	"github.com/npiscopo/cinerent/internal/handlers/rentals"
	"github.com/npiscopo/cinerent/internal/pg"
	"github.com/npiscopo/cinerent/internal/repo"
	"github.com/npiscopo/cinerent/internal/service/authservice"
	"github.com/npiscopo/cinerent/internal/service/cartservice"
	"github.com/npiscopo/cinerent/internal/service/catalogservice"
	"github.com/npiscopo/cinerent/internal/service/ledgerservice"
	"github.com/npiscopo/cinerent/internal/service/rentalservice"
	pkgauth "github.com/npiscopo/cinerent/pkg/auth"
)

type Services struct {
	AuthService    auth.Service
	LedgerService  payments.Service
	CatalogService movies.Service
	CartService    cart.Service
	RentalService  rentals.Service
}

func New(cfg *config.Config, repo *repo.Repositories, txManager pg.TXManager, events ledgerservice.EventPublisher, jwtService pkgauth.JWTServiceInterface) *Services {
	ledgerService := ledgerservice.New(repo.AccountRepo, repo.EntryRepo, txManager, events)
	authService := authservice.New(repo.UserRepo, ledgerService, pkgauth.NewHashService(), jwtService, cfg.TokenTTL)
	catalogService := catalogservice.New(repo.MovieRepo, repo.RentalRepo)
	cartService := cartservice.New(repo.CartRepo, catalogService)
	rentalService := rentalservice.New(repo.RentalRepo, ledgerService, catalogService)

	return &Services{
		AuthService:    authService,
		LedgerService:  ledgerService,
		CatalogService: catalogService,
		CartService:    cartService,
		RentalService:  rentalService,
	}
}
