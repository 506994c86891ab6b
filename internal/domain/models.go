package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// API contracts serialize money as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID           string    `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Account struct {
	ID      int             `db:"id"`
	OwnerID string          `db:"owner_id"`
	Number  string          `db:"account_number"`
	Balance decimal.Decimal `db:"balance"`
}

const (
	// EntryKindDeposit credits the account balance.
	EntryKindDeposit = "Deposit"
	// EntryKindDebit charges the account balance.
	EntryKindDebit = "Debit"
)

type LedgerEntry struct {
	ID             string          `db:"id"`
	OwnerID        string          `db:"owner_id"`
	Kind           string          `db:"kind"`
	Amount         decimal.Decimal `db:"amount"`
	Description    string          `db:"description"`
	IdempotencyKey *string         `db:"idempotency_key"`
	OccurredAt     time.Time       `db:"occurred_at"`
}

// Signed returns the entry amount with the sign implied by its kind.
func (e LedgerEntry) Signed() decimal.Decimal {
	if e.Kind == EntryKindDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}

type Movie struct {
	ID          int             `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Director    string          `db:"director"`
	Category    string          `db:"category"`
	Duration    int             `db:"duration"`
	ReleaseYear int             `db:"release_year"`
	Price       decimal.Decimal `db:"price"`
	CreatedAt   time.Time       `db:"created_at"`
}

const (
	RentalStatusActive   = "Active"
	RentalStatusReturned = "Returned"
	RentalStatusExpired  = "Expired"
)

type Rental struct {
	ID         string          `db:"id"`
	UserID     string          `db:"user_id"`
	MovieID    int             `db:"movie_id"`
	Price      decimal.Decimal `db:"price"`
	RentedAt   time.Time       `db:"rented_at"`
	DueAt      time.Time       `db:"due_at"`
	ReturnedAt *time.Time      `db:"returned_at"`
	Status     string          `db:"status"`
}

type Cart struct {
	ID        int        `db:"id"`
	UserID    string     `db:"user_id"`
	CreatedAt time.Time  `db:"created_at"`
	Items     []CartItem `db:"-"`
}

type CartItem struct {
	ID       int             `db:"id"`
	CartID   int             `db:"cart_id"`
	MovieID  int             `db:"movie_id"`
	Price    decimal.Decimal `db:"price"`
	Quantity int             `db:"quantity"`
}

// Total sums quantity times price over the cart items.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// TotalItems counts items in the cart including quantities.
func (c Cart) TotalItems() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}
