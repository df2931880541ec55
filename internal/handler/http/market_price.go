package http

import (
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/marketprice"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
)

type MarketPriceHandler interface {
	Latest(w http.ResponseWriter, r *http.Request)
	Record(w http.ResponseWriter, r *http.Request)
}

type marketPriceHandlerImpl struct {
	marketPriceService marketprice.MarketPriceService
}

func NewMarketPriceHandler(marketPriceService marketprice.MarketPriceService) MarketPriceHandler {
	return &marketPriceHandlerImpl{marketPriceService: marketPriceService}
}

// Latest implements MarketPriceHandler.
func (h *marketPriceHandlerImpl) Latest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := marketprice.LatestFilter{
		ProductIDs: queryList(r, "product_ids"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.marketPriceService.Latest(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Record implements MarketPriceHandler.
func (h *marketPriceHandlerImpl) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req marketprice.RecordRequest
	if !decodeJSON(w, r, &req, "RecordMarketPrice") {
		return
	}

	result, err := h.marketPriceService.Record(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}
