package domain

import "github.com/shopspring/decimal"

// TaxPolicy applies a flat rate and rounds half-up to cents.
type TaxPolicy struct {
	Rate decimal.Decimal
}

func NewTaxPolicy(rate string) (TaxPolicy, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return TaxPolicy{}, err
	}
	return TaxPolicy{Rate: r}, nil
}

func (p TaxPolicy) Apply(subtotal decimal.Decimal) decimal.Decimal {
	// decimal.Round rounds half away from zero, which is half-up for the
	// non-negative subtotals an order can have.
	return subtotal.Mul(p.Rate).Round(2)
}
