package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is the record the gateway's opaque session id resolves to.
// Exactly one live Session exists per id; the session store owns it.
//
// Each flow gets its own accumulator, constructed when the flow is
// entered and dropped when it exits, so half-finished data from one
// flow can never leak into another.
type Session struct {
	ID       string      `json:"id"`
	Phone    string      `json:"phone"`
	State    DialogState `json:"state"`
	LastSeen time.Time   `json:"last_seen"`

	// Seq increments every time a flow is entered. It feeds the
	// idempotency key of the flow's terminal write, so two submissions
	// of the same flow within one session stay distinct while a replay
	// of a single submission does not.
	Seq int `json:"seq"`

	Registration *RegistrationData `json:"registration,omitempty"`
	Revenue      *RevenueData      `json:"revenue,omitempty"`
	Expense      *ExpenseData      `json:"expense,omitempty"`
	Stock        *StockData        `json:"stock,omitempty"`
	Goal         *GoalData         `json:"goal,omitempty"`
	Reminder     *ReminderData     `json:"reminder,omitempty"`
}

// NewSession creates a fresh session at the start state.
func NewSession(id, phone string) *Session {
	return &Session{
		ID:       id,
		Phone:    phone,
		State:    StateStart,
		LastSeen: time.Now(),
	}
}

// ResetFlows drops every accumulator. Called when the caller returns to
// a menu hub so a later flow starts clean.
func (s *Session) ResetFlows() {
	s.Registration = nil
	s.Revenue = nil
	s.Expense = nil
	s.Stock = nil
	s.Goal = nil
	s.Reminder = nil
}

// RegistrationData accumulates the registration flow answers.
type RegistrationData struct {
	Name     string `json:"name,omitempty"`
	Business string `json:"business,omitempty"`
	Location string `json:"location,omitempty"`
}

// RevenueData accumulates the revenue-logging flow. The stock line is
// snapshotted at selection time for prompt wording only; quantities are
// re-fetched before the deduction is validated.
type RevenueData struct {
	StockID   string          `json:"stock_id"`
	StockName string          `json:"stock_name"`
	Amount    decimal.Decimal `json:"amount"`
	Quantity  int             `json:"quantity"`
}

// ExpenseData accumulates the expense-logging flow.
type ExpenseData struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// StockData accumulates the add-stock flow.
type StockData struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// GoalData accumulates the savings-goal flow.
type GoalData struct {
	Amount decimal.Decimal `json:"amount"`
}

// ReminderData accumulates the recurring-reminder flow.
type ReminderData struct {
	Amount   decimal.Decimal `json:"amount"`
	Interval string          `json:"interval"`
}
