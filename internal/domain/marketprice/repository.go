package marketprice

import (
	"context"
	"time"
)

type MarketPriceRepository interface {
	// LockProduct serializes price recording for one product until the transaction ends.
	LockProduct(ctx context.Context, productID string) error

	// GetPrevious returns the latest entry of the product dated strictly before date,
	// ties on date going to the most recently recorded entry.
	GetPrevious(ctx context.Context, companyID, productID string, date time.Time) (*Entry, error)

	Create(ctx context.Context, entry Entry) (Entry, error)

	// Latest returns the newest entry per product.
	Latest(ctx context.Context, companyID string, productIDs []string, limit int) ([]Entry, error)

	ProductExists(ctx context.Context, companyID, productID string) (bool, error)
}
