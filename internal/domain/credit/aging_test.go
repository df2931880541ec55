package credit

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dueDaysAgo(ref time.Time, days int) *time.Time {
	d := ref.AddDate(0, 0, -days)
	return &d
}

func TestCalculateAging(t *testing.T) {
	ref := time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC)

	t.Run("45 days overdue lands in 31-60 only", func(t *testing.T) {
		b := CalculateAging([]OpenInvoice{
			{ID: "inv-1", DueDate: dueDaysAgo(ref, 45), Residual: decimal.NewFromInt(100)},
		}, ref)

		assert.True(t, b.Days31To60.Equal(decimal.NewFromInt(100)))
		assert.True(t, b.Days0To30.IsZero())
		assert.True(t, b.Days61To90.IsZero())
		assert.True(t, b.Days90Plus.IsZero())
	})

	t.Run("boundaries", func(t *testing.T) {
		b := CalculateAging([]OpenInvoice{
			{DueDate: dueDaysAgo(ref, 30), Residual: decimal.NewFromInt(1)},
			{DueDate: dueDaysAgo(ref, 31), Residual: decimal.NewFromInt(2)},
			{DueDate: dueDaysAgo(ref, 60), Residual: decimal.NewFromInt(4)},
			{DueDate: dueDaysAgo(ref, 61), Residual: decimal.NewFromInt(8)},
			{DueDate: dueDaysAgo(ref, 90), Residual: decimal.NewFromInt(16)},
			{DueDate: dueDaysAgo(ref, 91), Residual: decimal.NewFromInt(32)},
		}, ref)

		assert.Equal(t, "1", b.Days0To30.String())
		assert.Equal(t, "6", b.Days31To60.String())
		assert.Equal(t, "24", b.Days61To90.String())
		assert.Equal(t, "32", b.Days90Plus.String())
	})

	t.Run("not yet due and negative residuals go to 0-30", func(t *testing.T) {
		future := ref.AddDate(0, 0, 10)
		b := CalculateAging([]OpenInvoice{
			{DueDate: &future, Residual: decimal.NewFromInt(50)},
			{DueDate: dueDaysAgo(ref, 3), Residual: decimal.NewFromInt(-20)},
		}, ref)

		assert.Equal(t, "30", b.Days0To30.String())
	})

	t.Run("missing due date is skipped", func(t *testing.T) {
		b := CalculateAging([]OpenInvoice{
			{ID: "no-due", Residual: decimal.NewFromInt(999)},
			{ID: "due", DueDate: dueDaysAgo(ref, 100), Residual: decimal.NewFromFloat(10.5)},
		}, ref)

		assert.Equal(t, "10.5", b.Total().String())
		assert.Equal(t, "10.5", b.Days90Plus.String())
	})

	t.Run("time of day does not shift the bucket", func(t *testing.T) {
		due := time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)
		early := time.Date(2024, 6, 30, 0, 1, 0, 0, time.UTC)

		b := CalculateAging([]OpenInvoice{{DueDate: &due, Residual: decimal.NewFromInt(7)}}, early)
		assert.Equal(t, "7", b.Days0To30.String())
	})

	t.Run("buckets sum to qualifying residuals", func(t *testing.T) {
		invoices := []OpenInvoice{
			{DueDate: dueDaysAgo(ref, 5), Residual: decimal.RequireFromString("100.10")},
			{DueDate: dueDaysAgo(ref, 40), Residual: decimal.RequireFromString("200.20")},
			{DueDate: dueDaysAgo(ref, 75), Residual: decimal.RequireFromString("300.30")},
			{DueDate: dueDaysAgo(ref, 200), Residual: decimal.RequireFromString("400.40")},
			{Residual: decimal.RequireFromString("5000")},
		}

		b := CalculateAging(invoices, ref)
		assert.Equal(t, "1001", b.Total().String())
	})

	t.Run("empty input", func(t *testing.T) {
		assert.True(t, CalculateAging(nil, ref).Total().IsZero())
	})
}
