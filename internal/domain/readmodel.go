package domain

import "time"

type OrderSummary struct {
	ID         int64     `json:"id" msgpack:"id"`
	CustomerID int64     `json:"customer_id" msgpack:"customer_id"`
	MerchantID int64     `json:"merchant_id" msgpack:"merchant_id"`
	Status     Status    `json:"status" msgpack:"status"`
	Total      string    `json:"total" msgpack:"total"`
	ItemCount  int       `json:"item_count" msgpack:"item_count"`
	CreatedAt  time.Time `json:"created_at" msgpack:"created_at"`
}

// CustomerSummary is one row of "customers who bought from this merchant".
type CustomerSummary struct {
	CustomerID      int64     `json:"customer_id" msgpack:"customer_id"`
	Orders          int       `json:"orders" msgpack:"orders"`
	CompletedOrders int       `json:"completed_orders" msgpack:"completed_orders"`
	Spent           string    `json:"spent" msgpack:"spent"`
	LastOrderAt     time.Time `json:"last_order_at" msgpack:"last_order_at"`
}

type Page struct {
	Number int
	Size   int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// OrderDetail is the per-order view shared by the customer and merchant
// projections.
type OrderDetail struct {
	ID               int64            `json:"id" msgpack:"id"`
	CustomerID       int64            `json:"customer_id" msgpack:"customer_id"`
	MerchantID       int64            `json:"merchant_id" msgpack:"merchant_id"`
	Status           Status           `json:"status" msgpack:"status"`
	BillingAddressID int64            `json:"billing_address_id" msgpack:"billing_address_id"`
	Tax              string           `json:"tax" msgpack:"tax"`
	Total            string           `json:"total" msgpack:"total"`
	DriverID         *int64           `json:"driver_id,omitempty" msgpack:"driver_id"`
	PaidAmount       *string          `json:"paid_amount,omitempty" msgpack:"paid_amount"`
	CreatedAt        time.Time        `json:"created_at" msgpack:"created_at"`
	Items            []LineItemDetail `json:"items" msgpack:"items"`
}

type LineItemDetail struct {
	ID        int64  `json:"id" msgpack:"id"`
	ProductID int64  `json:"product_id" msgpack:"product_id"`
	Price     string `json:"price" msgpack:"price"`
	Quantity  int    `json:"quantity" msgpack:"quantity"`
}
