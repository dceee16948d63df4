package models

type CreditBundle struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Credits  int64  `json:"credits"`
	PriceDZD int64  `json:"price_dzd"`
	Popular  bool   `json:"popular,omitempty"`
}

type Balance struct {
	Credits      int64         `json:"credits"`
	Transactions []Transaction `json:"transactions"`
}

type Transaction struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type PurchaseRequest struct {
	BundleID         string `json:"bundleId"`
	PaymentMethod    string `json:"paymentMethod"`
	PaymentReference string `json:"paymentReference,omitempty"`
}

type DeductRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type WalletResult struct {
	Success    bool   `json:"success"`
	NewBalance int64  `json:"newBalance"`
	Message    string `json:"message,omitempty"`
}
