package credit

import "github.com/shopspring/decimal"

// Customer is a partner with customer rank, with balances as kept by accounting.
type Customer struct {
	ID          string
	Name        string
	CreditLimit decimal.Decimal
	Receivable  decimal.Decimal
	Payable     decimal.Decimal
}
