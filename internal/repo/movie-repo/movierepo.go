package movierepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/pg"
	"go.uber.org/zap"
)

const movieColumns = "id, title, description, director, category, duration, release_year, price, created_at"

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByID(ctx context.Context, id int) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	row := r.db.QueryRow(ctx, query, id)
	var movie domain.Movie
	err := row.Scan(&movie.ID, &movie.Title, &movie.Description, &movie.Director, &movie.Category,
		&movie.Duration, &movie.ReleaseYear, &movie.Price, &movie.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get movie", zap.Error(err))
		return nil, err
	}
	return &movie, nil
}

func (r *Repository) List(ctx context.Context) ([]domain.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY title`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("failed to list movies", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var movie domain.Movie
		err := rows.Scan(&movie.ID, &movie.Title, &movie.Description, &movie.Director, &movie.Category,
			&movie.Duration, &movie.ReleaseYear, &movie.Price, &movie.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan movie row", zap.Error(err))
			return nil, err
		}
		movies = append(movies, movie)
	}

	return movies, rows.Err()
}

func (r *Repository) Create(ctx context.Context, movie *domain.Movie) (*domain.Movie, error) {
	query := `
		INSERT INTO movies (title, description, director, category, duration, release_year, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, movie.Title, movie.Description, movie.Director, movie.Category,
		movie.Duration, movie.ReleaseYear, movie.Price).Scan(&movie.ID, &movie.CreatedAt)
	if err != nil {
		zap.L().Error("can't save movie", zap.Error(err))
		return nil, err
	}
	return movie, nil
}

func (r *Repository) Update(ctx context.Context, movie *domain.Movie) error {
	query := `
		UPDATE movies
		SET title = $1, description = $2, director = $3, category = $4,
		    duration = $5, release_year = $6, price = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query, movie.Title, movie.Description, movie.Director, movie.Category,
		movie.Duration, movie.ReleaseYear, movie.Price, movie.ID)
	if err != nil {
		zap.L().Error("can't update movie", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("can't delete movie", zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
