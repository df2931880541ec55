package http

import (
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/credit"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
)

type CreditHandler interface {
	CustomerCredit(w http.ResponseWriter, r *http.Request)
}

type creditHandlerImpl struct {
	creditService credit.CreditService
}

func NewCreditHandler(creditService credit.CreditService) CreditHandler {
	return &creditHandlerImpl{creditService: creditService}
}

// CustomerCredit implements CreditHandler.
func (h *creditHandlerImpl) CustomerCredit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	filter := credit.CustomerCreditFilter{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
	if partnerID := r.URL.Query().Get("partner_id"); partnerID != "" {
		filter.PartnerID = &partnerID
	}

	result, err := h.creditService.CustomerCredit(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Customers, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}
