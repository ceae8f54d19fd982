package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Profile is the caller's business profile, keyed by phone number.
// Created once during registration and updated by the edit flows.
type Profile struct {
	ID       string `json:"id" mapstructure:"id"`
	Phone    string `json:"phone" mapstructure:"phone"`
	Name     string `json:"name" mapstructure:"name"`
	Business string `json:"business" mapstructure:"business"`
	Location string `json:"location" mapstructure:"location"`
}

// StockItem is one inventory line owned by a caller. Quantity is only
// ever decremented by the revenue flow and never goes negative.
type StockItem struct {
	ID        string          `json:"id" mapstructure:"id"`
	Owner     string          `json:"owner" mapstructure:"owner"` // phone number
	Name      string          `json:"name" mapstructure:"name"`
	Quantity  int             `json:"quantity" mapstructure:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" mapstructure:"unit_price"`
	Unit      string          `json:"unit" mapstructure:"unit"` // e.g. "kg", "bricks"
}

// TransactionKind distinguishes money in from money out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Transaction is one append-only ledger entry. Label carries the stock
// name for income and the expense type for expenses.
type Transaction struct {
	ID         string          `json:"id" mapstructure:"id"`
	Owner      string          `json:"owner" mapstructure:"owner"`
	Kind       TransactionKind `json:"kind" mapstructure:"kind"`
	Label      string          `json:"label" mapstructure:"label"`
	Amount     decimal.Decimal `json:"amount" mapstructure:"amount"`
	Quantity   int             `json:"quantity,omitempty" mapstructure:"quantity"`
	OccurredAt time.Time       `json:"occurred_at" mapstructure:"occurred_at"`
}

// Goal is a savings target set through the goals flow.
type Goal struct {
	ID     string          `json:"id" mapstructure:"id"`
	Owner  string          `json:"owner" mapstructure:"owner"`
	Amount decimal.Decimal `json:"amount" mapstructure:"amount"`
	SetAt  time.Time       `json:"set_at" mapstructure:"set_at"`
}

// Reminder is a recurring expense reminder.
type Reminder struct {
	ID       string          `json:"id" mapstructure:"id"`
	Owner    string          `json:"owner" mapstructure:"owner"`
	Amount   decimal.Decimal `json:"amount" mapstructure:"amount"`
	Interval string          `json:"interval" mapstructure:"interval"` // e.g. "weekly"
	SetAt    time.Time       `json:"set_at" mapstructure:"set_at"`
}

// Summary aggregates the transactions of one period.
type Summary struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Profit is income minus expenses. May be negative.
func (s Summary) Profit() decimal.Decimal {
	return s.Income.Sub(s.Expenses)
}

// SuggestedSavings is 10% of positive profit, zero otherwise.
func (s Summary) SuggestedSavings() decimal.Decimal {
	profit := s.Profit()
	if profit.Sign() <= 0 {
		return decimal.Zero
	}
	return profit.Mul(decimal.NewFromFloat(0.1))
}

// Summarize folds a transaction list into income and expense totals.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Kind {
		case KindIncome:
			s.Income = s.Income.Add(tx.Amount)
		case KindExpense:
			s.Expenses = s.Expenses.Add(tx.Amount)
		}
	}
	return s
}

// Period is a reporting window for the business-health summary.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// Start returns the inclusive lower bound of the period relative to now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodToday:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	default: // month
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
}
