package marketprice

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/marketprice"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/database"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"
)

type MarketPriceServiceImpl struct {
	tx database.Transactor
	marketprice.MarketPriceRepository
}

func NewMarketPriceService(tx database.Transactor, marketPriceRepo marketprice.MarketPriceRepository) marketprice.MarketPriceService {
	return &MarketPriceServiceImpl{
		tx:                    tx,
		MarketPriceRepository: marketPriceRepo,
	}
}

// Record implements marketprice.MarketPriceService.
func (m *MarketPriceServiceImpl) Record(ctx context.Context, actor identity.Actor, req marketprice.RecordRequest) (marketprice.RecordResponse, error) {
	if !actor.HasModule(identity.ModulePurchase) {
		return marketprice.RecordResponse{}, marketprice.ErrPurchaseAccessRequired
	}
	if err := req.Validate(); err != nil {
		return marketprice.RecordResponse{}, err
	}
	if !validator.IsValidUUID(req.ProductID) {
		return marketprice.RecordResponse{}, marketprice.ErrProductNotFound
	}

	exists, err := m.MarketPriceRepository.ProductExists(ctx, actor.CompanyID, req.ProductID)
	if err != nil {
		return marketprice.RecordResponse{}, fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return marketprice.RecordResponse{}, marketprice.ErrProductNotFound
	}

	var created marketprice.Entry
	err = m.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := m.MarketPriceRepository.LockProduct(txCtx, req.ProductID); err != nil {
			return fmt.Errorf("failed to lock product prices: %w", err)
		}

		prev, err := m.MarketPriceRepository.GetPrevious(txCtx, actor.CompanyID, req.ProductID, req.Date)
		if err != nil {
			return fmt.Errorf("failed to get previous price: %w", err)
		}

		entry := marketprice.NewEntry(actor.CompanyID, req.ProductID, actor.UserID, req.Price, req.Date, prev)
		entry.Notes = req.Notes
		entry.SupplierID = req.SupplierID

		created, err = m.MarketPriceRepository.Create(txCtx, entry)
		if err != nil {
			return fmt.Errorf("failed to create market price: %w", err)
		}
		return nil
	})
	if err != nil {
		return marketprice.RecordResponse{}, err
	}

	slog.Info("market price recorded",
		"price_id", created.ID,
		"product_id", created.ProductID,
		"date", created.Date.Format("2006-01-02"),
		"price_change", created.PriceChange,
		"recorded_by", actor.UserID,
	)

	return marketprice.RecordResponse{
		Success:     true,
		PriceID:     created.ID,
		PriceChange: round2(created.PriceChange),
		Message:     "Market price recorded successfully",
	}, nil
}

// Latest implements marketprice.MarketPriceService.
func (m *MarketPriceServiceImpl) Latest(ctx context.Context, actor identity.Actor, filter marketprice.LatestFilter) ([]marketprice.EntryResponse, error) {
	if !actor.HasModule(identity.ModulePurchase) {
		return nil, marketprice.ErrPurchaseAccessRequired
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	entries, err := m.MarketPriceRepository.Latest(ctx, actor.CompanyID, filter.ProductIDs, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list market prices: %w", err)
	}

	resp := make([]marketprice.EntryResponse, 0, len(entries))
	for _, e := range entries {
		r := marketprice.EntryResponse{
			ProductID:     e.ProductID,
			Price:         e.Price.InexactFloat64(),
			PreviousPrice: e.PreviousPrice.InexactFloat64(),
			Date:          e.Date.Format("2006-01-02"),
			PriceChange:   round2(e.PriceChange),
			SupplierID:    e.SupplierID,
			SupplierName:  e.SupplierName,
			Notes:         e.Notes,
		}
		if e.ProductName != nil {
			r.ProductName = *e.ProductName
		}
		resp = append(resp, r)
	}
	return resp, nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
