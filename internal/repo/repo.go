package repo

import (
	"github.com/npiscopo/cinerent/internal/pg"
	accountrepo "github.com/npiscopo/cinerent/internal/repo/account-repo"
	cartrepo "github.com/npiscopo/cinerent/internal/repo/cart-repo"
	entryrepo "github.com/npiscopo/cinerent/internal/repo/entry-repo"
	movierepo "github.com/npiscopo/cinerent/internal/repo/movie-repo"
	rentalrepo "github.com/npiscopo/cinerent/internal/repo/rental-repo"
	userrepo "github.com/npiscopo/cinerent/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo    *userrepo.Repository
	AccountRepo *accountrepo.Repository
	EntryRepo   *entryrepo.Repository
	MovieRepo   *movierepo.Repository
	RentalRepo  *rentalrepo.Repository
	CartRepo    *cartrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:    userrepo.New(conn),
		AccountRepo: accountrepo.New(conn),
		EntryRepo:   entryrepo.New(conn),
		MovieRepo:   movierepo.New(conn),
		RentalRepo:  rentalrepo.New(conn),
		CartRepo:    cartrepo.New(conn),
	}
}
