package marketprice

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is one observed market price of a product on a date. Entries are append-only.
type Entry struct {
	ID            string
	CompanyID     string
	ProductID     string
	SupplierID    *string
	Price         decimal.Decimal
	Date          time.Time
	Notes         *string
	RecordedBy    string
	PreviousPrice decimal.Decimal
	PriceChange   float64
	CreatedAt     time.Time

	// Join
	ProductName  *string
	SupplierName *string
}

// PriceChange is the percentage delta from prev to cur, 0 when there is no usable previous price.
func PriceChange(prev *Entry, cur decimal.Decimal) float64 {
	if prev == nil || prev.Price.IsZero() {
		return 0
	}
	return cur.Sub(prev.Price).Div(prev.Price).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// NewEntry builds an entry with its change computed against prev, the latest entry of
// the same product dated strictly before date.
func NewEntry(companyID, productID, recordedBy string, price decimal.Decimal, date time.Time, prev *Entry) Entry {
	e := Entry{
		CompanyID:   companyID,
		ProductID:   productID,
		Price:       price,
		Date:        date,
		RecordedBy:  recordedBy,
		PriceChange: PriceChange(prev, price),
	}
	if prev != nil && !prev.Price.IsZero() {
		e.PreviousPrice = prev.Price
	}
	return e
}
