package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/npiscopo/cinerent/docs"
	authhandlers "github.com/npiscopo/cinerent/internal/handlers/auth"
	carthandlers "github.com/npiscopo/cinerent/internal/handlers/cart"
	movieshandlers "github.com/npiscopo/cinerent/internal/handlers/movies"
	paymentshandlers "github.com/npiscopo/cinerent/internal/handlers/payments"
	rentalshandlers "github.com/npiscopo/cinerent/internal/handlers/rentals"
	"github.com/npiscopo/cinerent/internal/service"
	"github.com/npiscopo/cinerent/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type PaymentsHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	Debit(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type MoviesHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Exists(w http.ResponseWriter, r *http.Request)
	Price(w http.ResponseWriter, r *http.Request)
}

type CartHandler interface {
	Add(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Clear(w http.ResponseWriter, r *http.Request)
}

type RentalsHandler interface {
	Checkout(w http.ResponseWriter, r *http.Request)
	GetRentals(w http.ResponseWriter, r *http.Request)
	Return(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler     AuthHandler
	PaymentsHandler PaymentsHandler
	MoviesHandler   MoviesHandler
	CartHandler     CartHandler
	RentalsHandler  RentalsHandler

	jwtService auth.JWTServiceInterface
}

func New(s *service.Services, jwtService auth.JWTServiceInterface) *Handlers {
	return &Handlers{
		AuthHandler:     authhandlers.New(s.AuthService),
		PaymentsHandler: paymentshandlers.New(s.LedgerService),
		MoviesHandler:   movieshandlers.New(s.CatalogService),
		CartHandler:     carthandlers.New(s.CartService),
		RentalsHandler:  rentalshandlers.New(s.RentalService),
		jwtService:      jwtService,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)
	})
	r.Route("/api/movies", func(r chi.Router) {
		r.Get("/", h.MoviesHandler.List)
		r.Get("/exists/{id}", h.MoviesHandler.Exists)
		r.Get("/{id}", h.MoviesHandler.Get)
		r.Get("/{id}/price", h.MoviesHandler.Price)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(h.jwtService))
			r.Post("/", h.MoviesHandler.Create)
			r.Put("/{id}", h.MoviesHandler.Update)
			r.Delete("/{id}", h.MoviesHandler.Delete)
		})
	})
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(h.jwtService))
		r.Route("/api/payments", func(r chi.Router) {
			r.Get("/balance", h.PaymentsHandler.GetBalance)
			r.Post("/deposit", h.PaymentsHandler.Deposit)
			r.Post("/debit", h.PaymentsHandler.Debit)
			r.Get("/transactions", h.PaymentsHandler.GetTransactions)
		})
		r.Route("/api/cart", func(r chi.Router) {
			r.Post("/", h.CartHandler.Add)
			r.Get("/", h.CartHandler.Get)
			r.Delete("/", h.CartHandler.Clear)
		})
		r.Route("/api/rentals", func(r chi.Router) {
			r.Post("/checkout", h.RentalsHandler.Checkout)
			r.Get("/", h.RentalsHandler.GetRentals)
			r.Post("/{id}/return", h.RentalsHandler.Return)
		})
	})

	return r
}
