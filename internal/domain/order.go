package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TaxCalculator interface {
	Apply(subtotal decimal.Decimal) decimal.Decimal
}

type Order struct {
	ID               int64            `json:"id"`
	CustomerID       int64            `json:"customer_id"`
	MerchantID       int64            `json:"merchant_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Status           Status           `json:"status"`
	BillingAddressID int64            `json:"billing_address_id"`
	Tax              decimal.Decimal  `json:"tax"`
	Total            decimal.Decimal  `json:"total"`
	DriverID         *int64           `json:"driver_id,omitempty"`
	PaidAmount       *decimal.Decimal `json:"paid_amount,omitempty"`
	Items            []LineItem       `json:"items"`
}

// LineItem carries the product price at order time, not a live reference.
type LineItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func (li LineItem) Amount() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// NewOrder builds a Pending order. Totals stay zero until ApplyTax.
func NewOrder(customerID, merchantID, billingAddressID int64, items []LineItem, now time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order has no line items", ErrValidation)
	}
	for i, it := range items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d: quantity must be at least 1", ErrValidation, i)
		}
		if it.Price.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: price must not be negative", ErrValidation, i)
		}
		if !it.Price.Equal(it.Price.Round(2)) {
			return nil, fmt.Errorf("%w: item %d: price must have at most 2 decimal places", ErrValidation, i)
		}
	}
	return &Order{
		CustomerID:       customerID,
		MerchantID:       merchantID,
		BillingAddressID: billingAddressID,
		CreatedAt:        now,
		Status:           StatusPending,
		Tax:              decimal.Zero,
		Total:            decimal.Zero,
		Items:            items,
	}, nil
}

func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range o.Items {
		sum = sum.Add(it.Amount())
	}
	return sum
}

// ApplyTax fixes Tax and Total from the current line items. It is called once,
// at placement.
func (o *Order) ApplyTax(calc TaxCalculator) {
	subtotal := o.Subtotal()
	o.Tax = calc.Apply(subtotal)
	o.Total = subtotal.Add(o.Tax)
}

func (o *Order) TransitionTo(target Status) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown order status %q", ErrValidation, target)
	}
	if !o.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	o.Status = target
	return nil
}
