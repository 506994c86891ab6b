package movierepo

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

var movieTestColumns = []string{"id", "title", "description", "director", "category", "duration", "release_year", "price", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("movie found", func(t *testing.T) {
		rows := pgxmock.NewRows(movieTestColumns).
			AddRow(1, "Heat", "Crime drama", "Michael Mann", "Crime", 170, 1995,
				decimal.RequireFromString("4.99"), time.Now())
		mock.ExpectQuery("FROM movies WHERE id").
			WithArgs(1).
			WillReturnRows(rows)

		movie, err := repo.GetByID(context.Background(), 1)
		assert.NoError(t, err)
		assert.NotNil(t, movie)
		assert.Equal(t, "Heat", movie.Title)
		assert.True(t, movie.Price.Equal(decimal.RequireFromString("4.99")))
	})

	t.Run("movie missing", func(t *testing.T) {
		mock.ExpectQuery("FROM movies WHERE id").
			WithArgs(2).
			WillReturnError(pgx.ErrNoRows)

		movie, err := repo.GetByID(context.Background(), 2)
		assert.NoError(t, err)
		assert.Nil(t, movie)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("FROM movies WHERE id").
			WithArgs(3).
			WillReturnError(errors.New("database error"))

		_, err := repo.GetByID(context.Background(), 3)
		assert.Error(t, err)
	})
}

func TestRepository_List(t *testing.T) {
	repo, mock := NewMock(t)

	rows := pgxmock.NewRows(movieTestColumns).
		AddRow(2, "Alien", "Sci-fi horror", "Ridley Scott", "Horror", 117, 1979,
			decimal.RequireFromString("3.50"), time.Now()).
		AddRow(1, "Heat", "Crime drama", "Michael Mann", "Crime", 170, 1995,
			decimal.RequireFromString("4.99"), time.Now())
	mock.ExpectQuery("ORDER BY title").WillReturnRows(rows)

	movies, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, movies, 2)
	assert.Equal(t, "Alien", movies[0].Title)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	movie := &domain.Movie{
		Title:       "Heat",
		Description: "Crime drama",
		Director:    "Michael Mann",
		Category:    "Crime",
		Duration:    170,
		ReleaseYear: 1995,
		Price:       decimal.RequireFromString("4.99"),
	}

	created := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO movies (title, description, director, category, duration, release_year, price)")).
		WithArgs(movie.Title, movie.Description, movie.Director, movie.Category,
			movie.Duration, movie.ReleaseYear, movie.Price).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	saved, err := repo.Create(context.Background(), movie)
	assert.NoError(t, err)
	assert.Equal(t, 7, saved.ID)
	assert.Equal(t, created, saved.CreatedAt)
}

func TestRepository_Update(t *testing.T) {
	repo, mock := NewMock(t)

	movie := &domain.Movie{
		ID:          1,
		Title:       "Heat",
		Description: "Crime drama",
		Director:    "Michael Mann",
		Category:    "Crime",
		Duration:    170,
		ReleaseYear: 1995,
		Price:       decimal.RequireFromString("5.49"),
	}

	t.Run("movie updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE movies").
			WithArgs(movie.Title, movie.Description, movie.Director, movie.Category,
				movie.Duration, movie.ReleaseYear, movie.Price, movie.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, repo.Update(context.Background(), movie))
	})

	t.Run("movie missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE movies").
			WithArgs(movie.Title, movie.Description, movie.Director, movie.Category,
				movie.Duration, movie.ReleaseYear, movie.Price, movie.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.Update(context.Background(), movie)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("movie deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM movies").
			WithArgs(1).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), 1))
	})

	t.Run("movie missing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM movies").
			WithArgs(2).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		err := repo.Delete(context.Background(), 2)
		assert.ErrorIs(t, err, pgx.ErrNoRows)
	})
}
