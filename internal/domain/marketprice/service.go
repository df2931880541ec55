package marketprice

import (
	"context"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
)

type MarketPriceService interface {
	Record(ctx context.Context, actor identity.Actor, req RecordRequest) (RecordResponse, error)
	Latest(ctx context.Context, actor identity.Actor, filter LatestFilter) ([]EntryResponse, error)
}
