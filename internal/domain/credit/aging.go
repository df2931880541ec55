package credit

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenInvoice is a posted customer invoice that is not fully paid.
type OpenInvoice struct {
	ID        string
	PartnerID string
	DueDate   *time.Time
	Residual  decimal.Decimal
}

// Buckets holds residual sums by days past due.
type Buckets struct {
	Days0To30  decimal.Decimal
	Days31To60 decimal.Decimal
	Days61To90 decimal.Decimal
	Days90Plus decimal.Decimal
}

func (b Buckets) Total() decimal.Decimal {
	return b.Days0To30.Add(b.Days31To60).Add(b.Days61To90).Add(b.Days90Plus)
}

// CalculateAging buckets each invoice residual by whole calendar days between its due date
// and ref. Invoices not yet due count as 0-30, negative residuals are summed as is,
// and invoices without a due date are skipped.
func CalculateAging(invoices []OpenInvoice, ref time.Time) Buckets {
	var b Buckets
	for _, inv := range invoices {
		if inv.DueDate == nil {
			continue
		}

		days := daysBetween(*inv.DueDate, ref)
		switch {
		case days <= 30:
			b.Days0To30 = b.Days0To30.Add(inv.Residual)
		case days <= 60:
			b.Days31To60 = b.Days31To60.Add(inv.Residual)
		case days <= 90:
			b.Days61To90 = b.Days61To90.Add(inv.Residual)
		default:
			b.Days90Plus = b.Days90Plus.Add(inv.Residual)
		}
	}
	return b
}

func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
