package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the literal payment method tag recorded on an expense.
// The set is open: unknown values are valid and aggregate under their own name.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "Cash"
	PaymentMethodCard   PaymentMethod = "Card"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodWallet PaymentMethod = "Wallet"
	PaymentMethodOthers PaymentMethod = "Others"
)

// CategoryRef is the category as denormalized into expense and budget payloads
type CategoryRef struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ColorCode    string `json:"colorCode"`
	CategoryIcon int    `json:"categoryIcon"`
}

// Expense is a single recorded spend
type Expense struct {
	ID            int64           `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"`
	Category      CategoryRef     `json:"category"`
	Date          time.Time       `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
	IsRecurring   bool            `json:"isRecurring"`
}
