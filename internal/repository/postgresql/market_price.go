package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/marketprice"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type marketPriceRepositoryImpl struct {
	db database.Pool
}

func NewMarketPriceRepository(db database.Pool) marketprice.MarketPriceRepository {
	return &marketPriceRepositoryImpl{db: db}
}

const marketPriceColumns = `
	mp.id, mp.company_id, mp.product_id, mp.supplier_id, mp.price, mp.date, mp.notes,
	mp.recorded_by, mp.previous_price, mp.price_change, mp.created_at`

func scanMarketPrice(row pgx.Row, extra ...interface{}) (marketprice.Entry, error) {
	var e marketprice.Entry
	dest := []interface{}{
		&e.ID, &e.CompanyID, &e.ProductID, &e.SupplierID, &e.Price, &e.Date, &e.Notes,
		&e.RecordedBy, &e.PreviousPrice, &e.PriceChange, &e.CreatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return e, err
}

// LockProduct implements marketprice.MarketPriceRepository.
func (r *marketPriceRepositoryImpl) LockProduct(ctx context.Context, productID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('market_price:' || $1))`, productID); err != nil {
		return fmt.Errorf("failed to acquire market price lock: %w", err)
	}
	return nil
}

// GetPrevious implements marketprice.MarketPriceRepository.
func (r *marketPriceRepositoryImpl) GetPrevious(ctx context.Context, companyID, productID string, date time.Time) (*marketprice.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + marketPriceColumns + `
		FROM market_prices mp
		WHERE mp.company_id = $1
		  AND mp.product_id = $2
		  AND mp.date < $3
		ORDER BY mp.date DESC, mp.created_at DESC, mp.id DESC
		LIMIT 1
	`

	e, err := scanMarketPrice(q.QueryRow(ctx, query, companyID, productID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get previous market price: %w", err)
	}
	return &e, nil
}

// Create implements marketprice.MarketPriceRepository.
func (r *marketPriceRepositoryImpl) Create(ctx context.Context, e marketprice.Entry) (marketprice.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO market_prices (
			company_id, product_id, supplier_id, price, date, notes,
			recorded_by, previous_price, price_change
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		e.CompanyID,
		e.ProductID,
		e.SupplierID,
		e.Price,
		e.Date,
		e.Notes,
		e.RecordedBy,
		e.PreviousPrice,
		e.PriceChange,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == foreignKeyViolationCode && constraint == "market_prices_product_id_fkey" {
			return marketprice.Entry{}, marketprice.ErrProductNotFound
		}
		return marketprice.Entry{}, fmt.Errorf("failed to create market price: %w", err)
	}
	return e, nil
}

// Latest implements marketprice.MarketPriceRepository.
func (r *marketPriceRepositoryImpl) Latest(ctx context.Context, companyID string, productIDs []string, limit int) ([]marketprice.Entry, error) {
	q := GetQuerier(ctx, r.db)

	where := "mp.company_id = $1"
	args := []interface{}{companyID}
	if len(productIDs) > 0 {
		where += " AND mp.product_id = ANY($2)"
		args = append(args, productIDs)
	}
	args = append(args, limit)

	query := `
		SELECT * FROM (
			SELECT DISTINCT ON (mp.product_id) ` + marketPriceColumns + `, p.name AS product_name, s.name AS supplier_name
			FROM market_prices mp
			JOIN products p ON p.id = mp.product_id
			LEFT JOIN partners s ON s.id = mp.supplier_id
			WHERE ` + where + `
			ORDER BY mp.product_id, mp.date DESC, mp.created_at DESC, mp.id DESC
		) latest
		ORDER BY latest.date DESC, latest.created_at DESC
		LIMIT $` + fmt.Sprint(len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest market prices: %w", err)
	}
	defer rows.Close()

	var entries []marketprice.Entry
	for rows.Next() {
		var productName, supplierName *string
		e, err := scanMarketPrice(rows, &productName, &supplierName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan market price: %w", err)
		}
		e.ProductName = productName
		e.SupplierName = supplierName
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate market prices: %w", err)
	}
	return entries, nil
}

// ProductExists implements marketprice.MarketPriceRepository.
func (r *marketPriceRepositoryImpl) ProductExists(ctx context.Context, companyID, productID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND company_id = $2 AND active = TRUE)`
	if err := q.QueryRow(ctx, query, productID, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check product: %w", err)
	}
	return exists, nil
}
