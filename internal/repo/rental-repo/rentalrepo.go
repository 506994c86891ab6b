package rentalrepo

import (
	"context"
	"time"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, rental *domain.Rental) error {
	query := `
		INSERT INTO rentals (id, user_id, movie_id, price, rented_at, due_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		rental.ID, rental.UserID, rental.MovieID, rental.Price, rental.RentedAt, rental.DueAt, rental.Status)
	if err != nil {
		zap.L().Error("can't save rental", zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a grant outright. Used by checkout compensation; returned
// rentals are kept for history and never deleted.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		zap.L().Error("can't delete rental", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Rental, error) {
	query := `
        SELECT id, user_id, movie_id, price, rented_at, due_at, returned_at, status
        FROM rentals
        WHERE user_id = $1 AND status = $2
        ORDER BY rented_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID, domain.RentalStatusActive)
	if err != nil {
		zap.L().Error("failed to fetch rentals", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var rentals []domain.Rental
	for rows.Next() {
		var rental domain.Rental
		err := rows.Scan(&rental.ID, &rental.UserID, &rental.MovieID, &rental.Price,
			&rental.RentedAt, &rental.DueAt, &rental.ReturnedAt, &rental.Status)
		if err != nil {
			zap.L().Error("failed to scan rental row", zap.Error(err))
			return nil, err
		}
		rentals = append(rentals, rental)
	}

	return rentals, rows.Err()
}

func (r *Repository) MarkReturned(ctx context.Context, id, userID string) (bool, error) {
	query := `
		UPDATE rentals
		SET status = $1, returned_at = now()
		WHERE id = $2 AND user_id = $3 AND status = $4
	`
	tag, err := r.db.Exec(ctx, query, domain.RentalStatusReturned, id, userID, domain.RentalStatusActive)
	if err != nil {
		zap.L().Error("can't mark rental returned", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ExpireOverdue flips every active rental past its due date to Expired and
// reports how many were swept.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE rentals
		SET status = $1
		WHERE status = $2 AND due_at < $3
	`
	tag, err := r.db.Exec(ctx, query, domain.RentalStatusExpired, domain.RentalStatusActive, now)
	if err != nil {
		zap.L().Error("can't expire overdue rentals", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) HasActiveForMovie(ctx context.Context, movieID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM rentals WHERE movie_id = $1 AND status = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, movieID, domain.RentalStatusActive).Scan(&exists)
	if err != nil {
		zap.L().Error("failed to check active rentals", zap.Error(err))
		return false, err
	}
	return exists, nil
}
