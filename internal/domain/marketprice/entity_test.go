package marketprice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceChange(t *testing.T) {
	tests := []struct {
		name string
		prev *Entry
		cur  string
		want float64
	}{
		{"first entry", nil, "12000", 0},
		{"previous price zero", &Entry{Price: decimal.Zero}, "12000", 0},
		{"increase", &Entry{Price: decimal.NewFromInt(10000)}, "12500", 25},
		{"decrease", &Entry{Price: decimal.NewFromInt(8000)}, "6000", -25},
		{"unchanged", &Entry{Price: decimal.NewFromInt(8000)}, "8000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceChange(tt.prev, decimal.RequireFromString(tt.cur))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestNewEntry(t *testing.T) {
	date := time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)

	t.Run("with previous", func(t *testing.T) {
		prev := &Entry{ID: "mp-1", Price: decimal.NewFromInt(200)}
		e := NewEntry("co-1", "prod-1", "user-1", decimal.NewFromInt(250), date, prev)

		assert.InDelta(t, 25.0, e.PriceChange, 1e-9)
		assert.True(t, e.PreviousPrice.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, "user-1", e.RecordedBy)
	})

	t.Run("without previous", func(t *testing.T) {
		e := NewEntry("co-1", "prod-1", "user-1", decimal.NewFromInt(250), date, nil)

		assert.Equal(t, 0.0, e.PriceChange)
		assert.True(t, e.PreviousPrice.IsZero())
	})
}
