package dialog

import (
	"errors"
	"fmt"

	"github.com/tumaini/bizmanager/pkg/domain"
)

var financialGoalsAndTipsState = menuHandler(renderGoalsMenu, map[string]route{
	"1": {next: domain.StateSetFinancialGoals, enter: enterSetGoal},
	"2": {next: domain.StateSavingsAdvice, enter: savingsAdvice},
	"3": {next: domain.StateFinancialTips, enter: show(renderFinancialTip)},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

func enterSetGoal(st *step) (domain.Reply, error) {
	st.sess.Seq++
	st.sess.Goal = &domain.GoalData{}
	return domain.Continue("Enter Savings Target (in Ksh):"), nil
}

// setFinancialGoalsState persists the savings target.
func setFinancialGoalsState(st *step) (domain.Reply, error) {
	amount, ok := parseAmount(st.input)
	if !ok {
		return domain.Continue(
			"That doesn't look like a valid amount.\n\nEnter Savings Target (in Ksh):"), nil
	}
	st.sess.Goal.Amount = amount

	goal := &domain.Goal{
		Owner:  st.sess.Phone,
		Amount: amount,
		SetAt:  st.eng.now(),
	}
	err := st.eng.repo.CreateGoal(st.ctx, goal, idemKey(st.sess, domain.StateSetFinancialGoals))
	if err != nil && !errors.Is(err, domain.ErrDuplicateWrite) {
		st.eng.logger.Error("goal write failed", "session_id", st.sess.ID, "err", err)
		return domain.Continue(
			"We couldn't save your goal just now. Please try again.\n\nEnter Savings Target (in Ksh):"), nil
	}

	st.sess.State = domain.StateGoalSet
	return domain.Continue(fmt.Sprintf(
		"Goal of Ksh %s set.\n1. Back to Financial Goals\n0. Main Menu", amount.String())), nil
}

func renderGoalSetNav(st *step) (string, error) {
	return "What next?\n1. Back to Financial Goals\n0. Main Menu", nil
}

var goalSetState = menuHandler(renderGoalSetNav, map[string]route{
	"1": {next: domain.StateFinancialGoalsAndTips, enter: show(renderGoalsMenu)},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

// savingsAdvice reports 10% of the month's positive profit.
func savingsAdvice(st *step) (domain.Reply, error) {
	since := domain.PeriodMonth.Start(st.eng.now())
	txs, err := st.eng.repo.ListTransactionsSince(st.ctx, st.sess.Phone, since)
	if err != nil {
		st.eng.logger.Error("savings advice fetch failed", "session_id", st.sess.ID, "err", err)
		st.sess.State = domain.StateFinancialGoalsAndTips
		text, renderErr := renderGoalsMenu(st)
		if renderErr != nil {
			return domain.Reply{}, renderErr
		}
		return domain.Continue(
			"We couldn't fetch your records right now. Please try again.\n\n" + text), nil
	}

	s := domain.Summarize(txs)
	return domain.Terminate(fmt.Sprintf(
		"Suggested Savings: Ksh %s\nAdvice: \"Save at least 10%% of your profit each week.\"",
		s.SuggestedSavings().String())), nil
}

func renderFinancialTip(st *step) (string, error) {
	return "Financial Tip:\n\"Track expenses closely to maximize savings.\"\n" +
		"1. More Tips\n0. Main Menu", nil
}

var financialTipsState = menuHandler(renderFinancialTip, map[string]route{
	"1": {next: domain.StateFinancialTips, enter: moreFinancialTips},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

func moreFinancialTips(st *step) (domain.Reply, error) {
	return domain.Continue(
		"Another Financial Tip:\n\"Diversify your income streams to reduce risk.\"\n" +
			"1. More Tips\n0. Main Menu"), nil
}
