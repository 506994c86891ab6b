package cartrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

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

// GetOrCreate resolves the user's cart, materializing an empty one on first use.
func (r *Repository) GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error) {
	query := `
        INSERT INTO carts (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
        RETURNING id, user_id, created_at
    `
	var cart domain.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		zap.L().Error("failed to get or create cart", zap.Error(err))
		return nil, err
	}

	items, err := r.listItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *Repository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	query := `SELECT id, user_id, created_at FROM carts WHERE user_id = $1`
	var cart domain.Cart
	err := r.db.QueryRow(ctx, query, userID).Scan(&cart.ID, &cart.UserID, &cart.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get cart", zap.Error(err))
		return nil, err
	}

	items, err := r.listItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *Repository) listItems(ctx context.Context, cartID int) ([]domain.CartItem, error) {
	query := `
        SELECT id, cart_id, movie_id, price, quantity
        FROM cart_items
        WHERE cart_id = $1
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, cartID)
	if err != nil {
		zap.L().Error("failed to fetch cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var item domain.CartItem
		err := rows.Scan(&item.ID, &item.CartID, &item.MovieID, &item.Price, &item.Quantity)
		if err != nil {
			zap.L().Error("failed to scan cart item row", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpsertItem adds a movie to the cart or bumps its quantity, refreshing the
// captured price either way.
func (r *Repository) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, movie_id, price, quantity)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (cart_id, movie_id)
		DO UPDATE SET quantity = cart_items.quantity + 1, price = EXCLUDED.price
		RETURNING id, quantity
	`
	err := r.db.QueryRow(ctx, query, item.CartID, item.MovieID, item.Price).Scan(&item.ID, &item.Quantity)
	if err != nil {
		zap.L().Error("can't upsert cart item", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context, userID string) error {
	query := `DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE user_id = $1)`
	_, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't clear cart", zap.Error(err))
		return err
	}
	return nil
}
