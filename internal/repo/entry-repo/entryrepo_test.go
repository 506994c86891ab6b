package entryrepo

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

const testOwnerID = "5d4f9a0c-1e2b-4c3d-8e7f-6a5b4c3d2e1f"

var entryColumns = []string{"id", "owner_id", "kind", "amount", "description", "idempotency_key", "occurred_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)

	key := "b8a9f715-dbdb-4c3c-9b6c-4f8160d6e5f0"
	entry := &domain.LedgerEntry{
		ID:             "e1a2b3c4-d5e6-4f70-8a9b-0c1d2e3f4a5b",
		OwnerID:        testOwnerID,
		Kind:           domain.EntryKindDeposit,
		Amount:         decimal.RequireFromString("25.00"),
		Description:    "Deposit of 25.00",
		IdempotencyKey: &key,
		OccurredAt:     time.Now().UTC(),
	}

	t.Run("Entry inserted", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries (id, owner_id, kind, amount, description, idempotency_key, occurred_at)")).
			WithArgs(entry.ID, entry.OwnerID, entry.Kind, entry.Amount, entry.Description, entry.IdempotencyKey, entry.OccurredAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Create(context.Background(), entry)
		assert.NoError(t, err)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ledger_entries (id, owner_id, kind, amount, description, idempotency_key, occurred_at)")).
			WithArgs(entry.ID, entry.OwnerID, entry.Kind, entry.Amount, entry.Description, entry.IdempotencyKey, entry.OccurredAt).
			WillReturnError(errors.New("database error"))

		err := repo.Create(context.Background(), entry)
		assert.Error(t, err)
	})
}

func TestRepository_GetByIdempotencyKey(t *testing.T) {
	repo, mock := NewMock(t)

	key := "b8a9f715-dbdb-4c3c-9b6c-4f8160d6e5f0"
	occurred := time.Now().UTC()

	t.Run("Key seen before", func(t *testing.T) {
		rows := pgxmock.NewRows(entryColumns).
			AddRow("e1", testOwnerID, domain.EntryKindDeposit, decimal.RequireFromString("25.00"), "Deposit of 25.00", &key, occurred)
		mock.ExpectQuery("WHERE owner_id = \\$1 AND idempotency_key").
			WithArgs(testOwnerID, key).
			WillReturnRows(rows)

		entry, err := repo.GetByIdempotencyKey(context.Background(), testOwnerID, key)
		assert.NoError(t, err)
		assert.Equal(t, "e1", entry.ID)
		assert.Equal(t, key, *entry.IdempotencyKey)
	})

	t.Run("Unknown key yields nil, not an error", func(t *testing.T) {
		mock.ExpectQuery("WHERE owner_id = \\$1 AND idempotency_key").
			WithArgs(testOwnerID, key).
			WillReturnError(pgx.ErrNoRows)

		entry, err := repo.GetByIdempotencyKey(context.Background(), testOwnerID, key)
		assert.NoError(t, err)
		assert.Nil(t, entry)
	})
}

func TestRepository_ListByOwner(t *testing.T) {
	repo, mock := NewMock(t)

	now := time.Now().UTC()

	t.Run("Entries newest first", func(t *testing.T) {
		rows := pgxmock.NewRows(entryColumns).
			AddRow("e2", testOwnerID, domain.EntryKindDebit, decimal.RequireFromString("9.99"), "Debit of 9.99", nil, now).
			AddRow("e1", testOwnerID, domain.EntryKindDeposit, decimal.RequireFromString("25.00"), "Deposit of 25.00", nil, now.Add(-time.Hour))
		mock.ExpectQuery("ORDER BY occurred_at DESC").
			WithArgs(testOwnerID).
			WillReturnRows(rows)

		entries, err := repo.ListByOwner(context.Background(), testOwnerID)
		assert.NoError(t, err)
		assert.Len(t, entries, 2)
		assert.Equal(t, "e2", entries[0].ID)
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery("ORDER BY occurred_at DESC").
			WithArgs(testOwnerID).
			WillReturnError(errors.New("database error"))

		_, err := repo.ListByOwner(context.Background(), testOwnerID)
		assert.Error(t, err)
	})
}

func TestRepository_SumByOwner(t *testing.T) {
	repo, mock := NewMock(t)

	t.Run("Signed sum", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"coalesce"}).
			AddRow(decimal.RequireFromString("15.01"))
		mock.ExpectQuery("COALESCE").
			WithArgs(testOwnerID).
			WillReturnRows(rows)

		sum, err := repo.SumByOwner(context.Background(), testOwnerID)
		assert.NoError(t, err)
		assert.Equal(t, "15.01", sum.StringFixed(2))
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery("COALESCE").
			WithArgs(testOwnerID).
			WillReturnError(errors.New("database error"))

		_, err := repo.SumByOwner(context.Background(), testOwnerID)
		assert.Error(t, err)
	})
}
