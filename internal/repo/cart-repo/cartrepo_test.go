package cartrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/npiscopo/cinerent/internal/domain"
)

const testUserID = "0a1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

var cartItemColumns = []string{"id", "cart_id", "movie_id", "price", "quantity"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_GetOrCreate(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO carts (user_id)")).
		WithArgs(testUserID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at"}).
			AddRow(1, testUserID, time.Now()))
	mock.ExpectQuery("FROM cart_items").
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(cartItemColumns))

	cart, err := repo.GetOrCreate(context.Background(), testUserID)
	assert.NoError(t, err)
	assert.NotNil(t, cart)
	assert.Equal(t, testUserID, cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestRepository_Get(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("cart with items", func(t *testing.T) {
		mock.ExpectQuery("FROM carts WHERE user_id").
			WithArgs(testUserID).
			WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "created_at"}).
				AddRow(1, testUserID, time.Now()))
		mock.ExpectQuery("FROM cart_items").
			WithArgs(1).
			WillReturnRows(pgxmock.NewRows(cartItemColumns).
				AddRow(10, 1, 5, decimal.RequireFromString("9.99"), 2))

		cart, err := repo.Get(context.Background(), testUserID)
		assert.NoError(t, err)
		assert.NotNil(t, cart)
		assert.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
	})

	t.Run("no cart yet", func(t *testing.T) {
		mock.ExpectQuery("FROM carts WHERE user_id").
			WithArgs(testUserID).
			WillReturnError(pgx.ErrNoRows)

		cart, err := repo.Get(context.Background(), testUserID)
		assert.NoError(t, err)
		assert.Nil(t, cart)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("FROM carts WHERE user_id").
			WithArgs(testUserID).
			WillReturnError(errors.New("database error"))

		_, err := repo.Get(context.Background(), testUserID)
		assert.Error(t, err)
	})
}

func TestRepository_UpsertItem(t *testing.T) {
	repo, mock := NewMock(t)

	item := &domain.CartItem{
		CartID:  1,
		MovieID: 5,
		Price:   decimal.RequireFromString("9.99"),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_items (cart_id, movie_id, price, quantity)")).
		WithArgs(item.CartID, item.MovieID, item.Price).
		WillReturnRows(pgxmock.NewRows([]string{"id", "quantity"}).AddRow(10, 2))

	assert.NoError(t, repo.UpsertItem(context.Background(), item))
	assert.Equal(t, 10, item.ID)
	assert.Equal(t, 2, item.Quantity)
}

func TestRepository_Clear(t *testing.T) {
	repo, mock := NewMock(t)

	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs(testUserID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	assert.NoError(t, repo.Clear(context.Background(), testUserID))
}
