package cache

import "strconv"

// Key scheme: {audience}_{entity}:{scope}:{qualifiers...}
const (
	customerOrder    = "customer_order"
	merchantOrder    = "merchant_order"
	merchantCustomer = "merchant_customer"
)

func CustomerOrderListKey(customerID int64, page, size int) string {
	return CustomerOrderListPrefix(customerID) + pageSuffix(page, size)
}

// CustomerOrderListPrefix ends with ':' so customer 42 never covers 420.
func CustomerOrderListPrefix(customerID int64) string {
	return listPrefix(customerOrder, customerID)
}

func MerchantOrderListKey(merchantID int64, page, size int) string {
	return MerchantOrderListPrefix(merchantID) + pageSuffix(page, size)
}

func MerchantOrderListPrefix(merchantID int64) string {
	return listPrefix(merchantOrder, merchantID)
}

func MerchantCustomerListKey(merchantID int64, page, size int) string {
	return MerchantCustomerListPrefix(merchantID) + pageSuffix(page, size)
}

func MerchantCustomerListPrefix(merchantID int64) string {
	return listPrefix(merchantCustomer, merchantID)
}

func CustomerOrderKey(orderID int64) string {
	return customerOrder + ":" + strconv.FormatInt(orderID, 10)
}

func MerchantOrderKey(orderID int64) string {
	return merchantOrder + ":" + strconv.FormatInt(orderID, 10)
}

func listPrefix(audience string, id int64) string {
	return audience + ":list:" + strconv.FormatInt(id, 10) + ":"
}

func pageSuffix(page, size int) string {
	return strconv.Itoa(page) + ":" + strconv.Itoa(size)
}
