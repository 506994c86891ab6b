package ledgerservice

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/npiscopo/cinerent/internal/domain"
	"github.com/npiscopo/cinerent/internal/pg"
	"github.com/npiscopo/cinerent/pkg/validate"
)

// fakeStore keeps accounts and entries in memory so balance semantics can be
// exercised without a database, including under concurrent callers.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	entries  []domain.LedgerEntry
	nextID   int

	getErr    error
	createErr error
	updateErr error
	entryErr  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]*domain.Account)}
}

func (f *fakeStore) GetByOwner(_ context.Context, ownerID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	account, ok := f.accounts[ownerID]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (f *fakeStore) GetByOwnerForUpdate(ctx context.Context, ownerID string) (*domain.Account, error) {
	return f.GetByOwner(ctx, ownerID)
}

func (f *fakeStore) Create(_ context.Context, ownerID, number string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	account := &domain.Account{
		ID:      f.nextID,
		OwnerID: ownerID,
		Number:  number,
		Balance: decimal.Zero,
	}
	f.accounts[ownerID] = account
	copied := *account
	return &copied, nil
}

func (f *fakeStore) UpdateBalance(_ context.Context, ownerID string, balance decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.accounts[ownerID].Balance = balance
	return nil
}

func (f *fakeStore) CreateEntry(_ context.Context, entry *domain.LedgerEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entryErr != nil {
		return f.entryErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeStore) GetByIdempotencyKey(_ context.Context, ownerID, key string) (*domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.entries {
		if f.entries[i].OwnerID == ownerID && f.entries[i].IdempotencyKey != nil && *f.entries[i].IdempotencyKey == key {
			copied := f.entries[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListByOwner(_ context.Context, ownerID string) ([]domain.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LedgerEntry
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].OwnerID == ownerID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

// signedSum replays the entry log; the stored balance must always agree.
func (f *fakeStore) signedSum(ownerID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := decimal.Zero
	for _, entry := range f.entries {
		if entry.OwnerID == ownerID {
			sum = sum.Add(entry.Signed())
		}
	}
	return sum
}

type entryAdapter struct{ store *fakeStore }

func (a entryAdapter) Create(ctx context.Context, entry *domain.LedgerEntry) error {
	return a.store.CreateEntry(ctx, entry)
}

func (a entryAdapter) GetByIdempotencyKey(ctx context.Context, ownerID, key string) (*domain.LedgerEntry, error) {
	return a.store.GetByIdempotencyKey(ctx, ownerID, key)
}

func (a entryAdapter) ListByOwner(ctx context.Context, ownerID string) ([]domain.LedgerEntry, error) {
	return a.store.ListByOwner(ctx, ownerID)
}

// passTx runs the transactional body directly.
type passTx struct{}

func (passTx) Begin(ctx context.Context, fn pg.TransactionalFn) error {
	return fn(ctx)
}

type capturedEvent struct {
	entry      domain.LedgerEntry
	newBalance decimal.Decimal
}

type fakePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *fakePublisher) PublishTransaction(_ context.Context, entry domain.LedgerEntry, newBalance decimal.Decimal) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{entry: entry, newBalance: newBalance})
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func newTestService() (*Service, *fakeStore, *fakePublisher) {
	store := newFakeStore()
	publisher := &fakePublisher{}
	svc := New(store, entryAdapter{store}, passTx{}, publisher)
	return svc, store, publisher
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGetOrCreateBalance(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()

	balance, err := svc.GetOrCreateBalance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	account := store.accounts["u1"]
	require.NotNil(t, account)
	assert.Len(t, account.Number, 12)
	assert.True(t, validate.IsLuhn(account.Number))

	// a second read returns the same account, no new one is minted
	balance, err = svc.GetOrCreateBalance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
	assert.Equal(t, account.ID, store.accounts["u1"].ID)
	assert.Len(t, store.accounts, 1)
}

func TestGetOrCreateBalance_StoreDown(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()
	store.getErr = assert.AnError

	_, err := svc.GetOrCreateBalance(ctx, "u1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the wallet on first deposit", func(t *testing.T) {
		svc, store, publisher := newTestService()

		entry, newBalance, err := svc.Deposit(ctx, "u1", dec("25"), "EUR", "")
		require.NoError(t, err)
		assert.Equal(t, "25.00", newBalance.StringFixed(2))
		assert.Equal(t, domain.EntryKindDeposit, entry.Kind)
		assert.Equal(t, "Deposit of 25.00 EUR", entry.Description)
		assert.NotEmpty(t, entry.ID)

		assert.True(t, store.signedSum("u1").Equal(newBalance))
		assert.Equal(t, 1, publisher.count())
	})

	t.Run("rejects zero and negative amounts", func(t *testing.T) {
		svc, store, _ := newTestService()

		// 0.004 rounds to 0.00 and must fail validation, not the store
		for _, raw := range []string{"0", "-5", "-0.01", "0.004"} {
			_, _, err := svc.Deposit(ctx, "u1", dec(raw), "", "")
			assert.ErrorIs(t, err, ErrInvalidAmount, raw)
		}
		// rejection never materializes an account or an entry
		assert.Empty(t, store.accounts)
		assert.Empty(t, store.entries)
	})

	t.Run("accumulates across deposits", func(t *testing.T) {
		svc, store, _ := newTestService()

		_, _, err := svc.Deposit(ctx, "u1", dec("10.50"), "", "")
		require.NoError(t, err)
		_, newBalance, err := svc.Deposit(ctx, "u1", dec("4.51"), "", "")
		require.NoError(t, err)

		assert.Equal(t, "15.01", newBalance.StringFixed(2))
		assert.True(t, store.signedSum("u1").Equal(newBalance))
	})

	t.Run("store failure surfaces as unavailable", func(t *testing.T) {
		svc, store, publisher := newTestService()
		store.updateErr = assert.AnError

		_, _, err := svc.Deposit(ctx, "u1", dec("25"), "", "")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Zero(t, publisher.count())
	})
}

func TestDebit(t *testing.T) {
	ctx := context.Background()

	t.Run("never creates an account", func(t *testing.T) {
		svc, store, _ := newTestService()

		_, _, err := svc.Debit(ctx, "ghost", dec("9.99"), "")
		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.Empty(t, store.accounts)
		assert.Empty(t, store.entries)
	})

	t.Run("exact balance drains to zero", func(t *testing.T) {
		svc, store, _ := newTestService()
		_, _, err := svc.Deposit(ctx, "u1", dec("10.00"), "", "")
		require.NoError(t, err)

		_, newBalance, err := svc.Debit(ctx, "u1", dec("10.00"), "")
		require.NoError(t, err)
		assert.True(t, newBalance.IsZero())
		assert.True(t, store.signedSum("u1").IsZero())
	})

	t.Run("one cent over is refused", func(t *testing.T) {
		svc, store, _ := newTestService()
		_, _, err := svc.Deposit(ctx, "u1", dec("10.00"), "", "")
		require.NoError(t, err)

		_, _, err = svc.Debit(ctx, "u1", dec("10.01"), "")
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		// the failed debit leaves no trace
		balance, err := svc.GetOrCreateBalance(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, "10.00", balance.StringFixed(2))
		assert.Len(t, store.entries, 1)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		svc, _, _ := newTestService()

		for _, raw := range []string{"0", "-1", "0.004"} {
			_, _, err := svc.Debit(ctx, "u1", dec(raw), "")
			assert.ErrorIs(t, err, ErrInvalidAmount, raw)
		}
	})
}

func TestWalletLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store, publisher := newTestService()

	balance, err := svc.GetOrCreateBalance(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, balance, err = svc.Deposit(ctx, "u1", dec("25.00"), "EUR", "")
	require.NoError(t, err)
	assert.Equal(t, "25.00", balance.StringFixed(2))

	_, balance, err = svc.Debit(ctx, "u1", dec("9.99"), "")
	require.NoError(t, err)
	assert.Equal(t, "15.01", balance.StringFixed(2))

	_, _, err = svc.Debit(ctx, "u1", dec("15.02"), "")
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	balance, err = svc.GetOrCreateBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "15.01", balance.StringFixed(2))

	entries, err := svc.ListEntries(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.True(t, store.signedSum("u1").Equal(balance))
	assert.Equal(t, 2, publisher.count())
}

func TestIdempotentReplay(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit replays without re-applying", func(t *testing.T) {
		svc, store, _ := newTestService()

		first, balance, err := svc.Deposit(ctx, "u1", dec("25"), "", "key-1")
		require.NoError(t, err)
		assert.Equal(t, "25.00", balance.StringFixed(2))

		replayed, balance, err := svc.Deposit(ctx, "u1", dec("25"), "", "key-1")
		require.NoError(t, err)
		assert.Equal(t, first.ID, replayed.ID)
		assert.Equal(t, "25.00", balance.StringFixed(2))
		assert.Len(t, store.entries, 1)
	})

	t.Run("debit replays without re-applying", func(t *testing.T) {
		svc, store, _ := newTestService()
		_, _, err := svc.Deposit(ctx, "u1", dec("25"), "", "")
		require.NoError(t, err)

		first, balance, err := svc.Debit(ctx, "u1", dec("9.99"), "key-2")
		require.NoError(t, err)
		assert.Equal(t, "15.01", balance.StringFixed(2))

		replayed, balance, err := svc.Debit(ctx, "u1", dec("9.99"), "key-2")
		require.NoError(t, err)
		assert.Equal(t, first.ID, replayed.ID)
		assert.Equal(t, "15.01", balance.StringFixed(2))
		assert.Len(t, store.entries, 2)
	})

	t.Run("another owner's key is not replayed", func(t *testing.T) {
		svc, store, _ := newTestService()
		_, _, err := svc.Deposit(ctx, "u1", dec("25"), "", "shared-key")
		require.NoError(t, err)

		// keys are scoped per owner, so u2 reusing u1's key applies normally
		_, balance, err := svc.Deposit(ctx, "u2", dec("10"), "", "shared-key")
		require.NoError(t, err)
		assert.Equal(t, "10.00", balance.StringFixed(2))
		assert.Len(t, store.entries, 2)
	})
}

func TestConcurrentDebits(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()

	_, _, err := svc.Deposit(ctx, "u1", dec("100.00"), "", "")
	require.NoError(t, err)

	const workers = 20
	amount := dec("9.99")

	var succeeded, refused int64
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, _, err := svc.Debit(gctx, "u1", amount, "")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInsufficientFunds):
				refused++
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	// floor(100.00 / 9.99) = 10 debits fit
	assert.EqualValues(t, 10, succeeded)
	assert.EqualValues(t, workers-10, refused)

	balance, err := svc.GetOrCreateBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "0.10", balance.StringFixed(2))
	assert.True(t, store.signedSum("u1").Equal(balance))
	assert.False(t, balance.IsNegative())
}

func TestConcurrentMixedOwners(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService()

	const perOwner = 10
	owners := []string{"u1", "u2", "u3"}

	g, gctx := errgroup.WithContext(ctx)
	for _, owner := range owners {
		for i := 0; i < perOwner; i++ {
			g.Go(func() error {
				_, _, err := svc.Deposit(gctx, owner, dec("1.50"), "", "")
				return err
			})
		}
	}
	require.NoError(t, g.Wait())

	for _, owner := range owners {
		balance, err := svc.GetOrCreateBalance(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, "15.00", balance.StringFixed(2), owner)
		assert.True(t, store.signedSum(owner).Equal(balance))
	}
}
