package accountrepo

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

func (r *Repository) GetByOwner(ctx context.Context, ownerID string) (*domain.Account, error) {
	query := `
        SELECT id, owner_id, account_number, balance
        FROM accounts
        WHERE owner_id = $1
    `
	return r.scanOne(ctx, query, ownerID)
}

// GetByOwnerForUpdate takes a row lock on the account. Must run inside a
// transaction started through the TXManager.
func (r *Repository) GetByOwnerForUpdate(ctx context.Context, ownerID string) (*domain.Account, error) {
	query := `
        SELECT id, owner_id, account_number, balance
        FROM accounts
        WHERE owner_id = $1
        FOR UPDATE
    `
	return r.scanOne(ctx, query, ownerID)
}

func (r *Repository) scanOne(ctx context.Context, query, ownerID string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, query, ownerID)
	var account domain.Account
	err := row.Scan(&account.ID, &account.OwnerID, &account.Number, &account.Balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) Create(ctx context.Context, ownerID, number string) (*domain.Account, error) {
	query := `
        INSERT INTO accounts (owner_id, account_number, balance)
        VALUES ($1, $2, 0)
        ON CONFLICT (owner_id) DO UPDATE SET owner_id = EXCLUDED.owner_id
        RETURNING id, owner_id, account_number, balance
    `
	row := r.db.QueryRow(ctx, query, ownerID, number)
	var account domain.Account
	err := row.Scan(&account.ID, &account.OwnerID, &account.Number, &account.Balance)
	if err != nil {
		zap.L().Error("failed to create account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) UpdateBalance(ctx context.Context, ownerID string, balance decimal.Decimal) error {
	query := `
		UPDATE accounts
		SET balance = $1
		WHERE owner_id = $2
	`
	_, err := r.db.Exec(ctx, query, balance, ownerID)
	if err != nil {
		zap.L().Error("failed to update account balance", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) List(ctx context.Context, limit uint32) ([]domain.Account, error) {
	query := `
        SELECT id, owner_id, account_number, balance
        FROM accounts
        ORDER BY id
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("failed to list accounts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		err := rows.Scan(&account.ID, &account.OwnerID, &account.Number, &account.Balance)
		if err != nil {
			zap.L().Error("failed to scan account row", zap.Error(err))
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}
