package credit

import "github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/validator"

type CustomerCreditFilter struct {
	PartnerID *string `json:"partner_id,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *CustomerCreditFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 || f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be between 1 and 100",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}

	if f.PartnerID != nil && validator.IsEmpty(*f.PartnerID) {
		f.PartnerID = nil
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CustomerCreditResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CreditLimit     float64 `json:"credit_limit"`
	TotalReceivable float64 `json:"total_receivable"`
	TotalPayable    float64 `json:"total_payable"`
	Aging0To30      float64 `json:"aging_0_30"`
	Aging31To60     float64 `json:"aging_31_60"`
	Aging61To90     float64 `json:"aging_61_90"`
	Aging90Plus     float64 `json:"aging_90_plus"`
	TotalOpen       float64 `json:"total_open"`
}

type ListCustomerCreditResponse struct {
	TotalCount int64                    `json:"total"`
	Page       int                      `json:"page"`
	Limit      int                      `json:"limit"`
	TotalPages int                      `json:"total_pages"`
	Customers  []CustomerCreditResponse `json:"records"`
}
