package payment

import "github.com/shopspring/decimal"

// CreateTransactionRequest carries what Snap needs to open a payment.
type CreateTransactionRequest struct {
	OrderID       string
	GrossAmount   decimal.Decimal
	CustomerName  string
	CustomerEmail string
	ItemName      string
}

// Token is the Snap transaction handle the browser widget consumes via
// window.snap.pay(token, ...).
type Token struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

type snapTransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type snapCustomerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
}

type snapItemDetail struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

type snapRequest struct {
	TransactionDetails snapTransactionDetails `json:"transaction_details"`
	CustomerDetails    *snapCustomerDetails   `json:"customer_details,omitempty"`
	ItemDetails        []snapItemDetail       `json:"item_details,omitempty"`
}

type snapErrorResponse struct {
	ErrorMessages []string `json:"error_messages"`
}

// Notification is the gateway's server-to-server payment status callback.
type Notification struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
}
