package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/littleshop/catalog-api/internal/model"
	"github.com/littleshop/catalog-api/internal/service"
	"github.com/littleshop/catalog-api/pkg/database"
)

const itemColumns = `id, merchant_id, name, description, unit_price, created_at, updated_at`

// ItemRepository provides data access for catalog items using pgx.
type ItemRepository struct {
	pool database.TxQuerier
}

// NewItemRepository creates a new ItemRepository with the given pool.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// NewItemRepositoryWithPool creates an ItemRepository with a custom querier.
// Primarily used for testing.
func NewItemRepositoryWithPool(pool database.TxQuerier) *ItemRepository {
	return &ItemRepository{pool: pool}
}

// Insert inserts a new item.
func (r *ItemRepository) Insert(ctx context.Context, item *model.Item) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO items (id, merchant_id, name, description, unit_price)
		 VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.MerchantID, item.Name, item.Description, item.UnitPrice)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by id.
// Returns nil, nil if the item is not found.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`

	var item model.Item
	err := r.pool.QueryRow(ctx, query, id).Scan(&item.ID, &item.MerchantID, &item.Name,
		&item.Description, &item.UnitPrice, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	return &item, nil
}

// ListByMerchant retrieves a merchant's items.
func (r *ItemRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE merchant_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("list items for merchant %s: %w", merchantID, err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CountByMerchant counts a merchant's items.
func (r *ItemRepository) CountByMerchant(ctx context.Context, merchantID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM items WHERE merchant_id = $1`, merchantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count items for merchant %s: %w", merchantID, err)
	}
	return count, nil
}

// Search retrieves items matching a name fragment (case-insensitive) or a
// unit-price range, ordered by name. Search semantics mirror the reporting
// endpoints: name and price bounds are not combined.
func (r *ItemRepository) Search(ctx context.Context, search model.ItemSearch) ([]model.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any

	switch {
	case search.Name != "":
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, search.Name)
	case search.MinPrice != nil && search.MaxPrice != nil:
		query += ` WHERE unit_price >= $1 AND unit_price <= $2`
		args = append(args, *search.MinPrice, *search.MaxPrice)
	case search.MinPrice != nil:
		query += ` WHERE unit_price >= $1`
		args = append(args, *search.MinPrice)
	case search.MaxPrice != nil:
		query += ` WHERE unit_price <= $1`
		args = append(args, *search.MaxPrice)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Update persists an item's editable fields.
// Returns service.ErrItemNotFound if no row was affected.
func (r *ItemRepository) Update(ctx context.Context, item *model.Item) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE items SET name = $2, description = $3, unit_price = $4, updated_at = now() WHERE id = $1`,
		item.ID, item.Name, item.Description, item.UnitPrice)
	if err != nil {
		return fmt.Errorf("update item %s: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrItemNotFound
	}
	return nil
}

// Delete removes an item.
// Returns service.ErrItemNotFound if no row was affected.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrItemNotFound
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]model.Item, error) {
	items := []model.Item{}
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.MerchantID, &item.Name, &item.Description,
			&item.UnitPrice, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, nil
}
