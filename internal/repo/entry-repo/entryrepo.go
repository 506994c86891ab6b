package entryrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

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

func (r *Repository) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, owner_id, kind, amount, description, idempotency_key, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.OwnerID, entry.Kind, entry.Amount, entry.Description, entry.IdempotencyKey, entry.OccurredAt)
	if err != nil {
		zap.L().Error("can't save ledger entry", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.LedgerEntry, error) {
	query := `
        SELECT id, owner_id, kind, amount, description, idempotency_key, occurred_at
        FROM ledger_entries
        WHERE owner_id = $1 AND idempotency_key = $2
    `
	row := r.db.QueryRow(ctx, query, ownerID, key)
	var entry domain.LedgerEntry
	err := row.Scan(&entry.ID, &entry.OwnerID, &entry.Kind, &entry.Amount, &entry.Description, &entry.IdempotencyKey, &entry.OccurredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to look up idempotency key", zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]domain.LedgerEntry, error) {
	query := `
        SELECT id, owner_id, kind, amount, description, idempotency_key, occurred_at
        FROM ledger_entries
        WHERE owner_id = $1
        ORDER BY occurred_at DESC
    `
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		zap.L().Error("failed to fetch ledger entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var entry domain.LedgerEntry
		err := rows.Scan(&entry.ID, &entry.OwnerID, &entry.Kind, &entry.Amount, &entry.Description, &entry.IdempotencyKey, &entry.OccurredAt)
		if err != nil {
			zap.L().Error("failed to scan ledger entry row", zap.Error(err))
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// SumByOwner returns the signed sum of all entries for an owner, deposits
// counted positive and debits negative.
func (r *Repository) SumByOwner(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	query := `
        SELECT COALESCE(SUM(CASE WHEN kind = 'Debit' THEN -amount ELSE amount END), 0)
        FROM ledger_entries
        WHERE owner_id = $1
    `
	var sum decimal.Decimal
	err := r.db.QueryRow(ctx, query, ownerID).Scan(&sum)
	if err != nil {
		zap.L().Error("failed to sum ledger entries", zap.Error(err))
		return decimal.Zero, err
	}
	return sum, nil
}
