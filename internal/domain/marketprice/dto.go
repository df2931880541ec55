package marketprice

import (
	"time"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RecordRequest struct {
	ProductID  string          `json:"product_id"`
	Price      decimal.Decimal `json:"price"`
	DateStr    string          `json:"date_str"`
	Notes      *string         `json:"notes,omitempty"`
	SupplierID *string         `json:"supplier_id,omitempty"`

	Date time.Time `json:"-"`
}

// Validate rounds Price to the two decimals the price is stored with.
func (r *RecordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ProductID) {
		errs = append(errs, validator.ValidationError{
			Field:   "product_id",
			Message: "product_id is required",
		})
	}

	if r.Price.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "price",
			Message: "price must not be negative",
		})
	}
	r.Price = r.Price.Round(2)

	if validator.IsEmpty(r.DateStr) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_str",
			Message: "date_str is required",
		})
	} else if date, ok := validator.IsValidDate(r.DateStr); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date_str",
			Message: "date_str must be in YYYY-MM-DD format",
		})
	} else {
		r.Date = date
	}

	if r.SupplierID != nil && validator.IsEmpty(*r.SupplierID) {
		r.SupplierID = nil
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LatestFilter struct {
	ProductIDs []string `json:"product_ids,omitempty"`
	Limit      int      `json:"limit"`
}

func (f *LatestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Limit < 0 || f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 500",
		})
	}
	if f.Limit == 0 {
		f.Limit = 100
	}

	for i, id := range f.ProductIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "product_ids[" + validator.Itoa(i) + "]",
				Message: "product id must be a valid UUID",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RecordResponse struct {
	Success     bool    `json:"success"`
	PriceID     string  `json:"price_id"`
	PriceChange float64 `json:"price_change"`
	Message     string  `json:"message"`
}

type EntryResponse struct {
	ProductID     string  `json:"product_id"`
	ProductName   string  `json:"product_name"`
	Price         float64 `json:"price"`
	PreviousPrice float64 `json:"previous_price"`
	Date          string  `json:"date"`
	PriceChange   float64 `json:"price_change"`
	SupplierID    *string `json:"supplier_id,omitempty"`
	SupplierName  *string `json:"supplier_name,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}
