package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	txs := []Transaction{
		{Kind: KindIncome, Amount: decimal.NewFromInt(500)},
		{Kind: KindIncome, Amount: decimal.NewFromInt(250)},
		{Kind: KindExpense, Amount: decimal.NewFromInt(200)},
	}

	s := Summarize(txs)
	assert.Equal(t, "750", s.Income.String())
	assert.Equal(t, "200", s.Expenses.String())
	assert.Equal(t, "550", s.Profit().String())
	assert.Equal(t, "55", s.SuggestedSavings().String())
}

func TestSuggestedSavingsOnLoss(t *testing.T) {
	s := Summary{
		Income:   decimal.NewFromInt(100),
		Expenses: decimal.NewFromInt(300),
	}
	assert.Equal(t, "-200", s.Profit().String())
	assert.Equal(t, "0", s.SuggestedSavings().String())
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, 8, 20, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), PeriodToday.Start(now))
	assert.Equal(t, now.AddDate(0, 0, -7), PeriodWeek.Start(now))
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), PeriodMonth.Start(now))
}

func TestReplyRender(t *testing.T) {
	assert.Equal(t, "CON pick one", Continue("pick one").Render())
	assert.Equal(t, "END bye", Terminate("bye").Render())
}

func TestResetFlows(t *testing.T) {
	sess := NewSession("s1", "+1")
	sess.Registration = &RegistrationData{Name: "Alice"}
	sess.Revenue = &RevenueData{StockID: "stock-1"}
	sess.Goal = &GoalData{}

	sess.ResetFlows()
	assert.Nil(t, sess.Registration)
	assert.Nil(t, sess.Revenue)
	assert.Nil(t, sess.Goal)
}

func TestDialogStateBranches(t *testing.T) {
	assert.True(t, StateRegisterName.InRegistrationBranch())
	assert.False(t, StateMainMenu.InRegistrationBranch())
	assert.True(t, StateEnd.Terminal())
	assert.False(t, StateMainMenu.Terminal())
}
