package dialog

import (
	"errors"
	"fmt"

	"github.com/tumaini/bizmanager/pkg/domain"
)

func enterLogExpenses(st *step) (domain.Reply, error) {
	st.sess.Seq++
	st.sess.Expense = &domain.ExpenseData{}
	return domain.Continue(
		"What type of expense did you have today? (e.g., Food, Tax, Water, Electricity):"), nil
}

func logExpensesState(st *step) (domain.Reply, error) {
	if st.input == "" {
		return domain.Continue(
			"Please tell us the expense type.\n\nWhat type of expense did you have today?"), nil
	}
	st.sess.Expense.Type = st.input
	st.sess.State = domain.StateExpenseAmount
	return domain.Continue(fmt.Sprintf(
		"Got it! Please enter the amount you spent today on %s:", st.input)), nil
}

// expenseAmountState performs the expense flow's single write.
func expenseAmountState(st *step) (domain.Reply, error) {
	exp := st.sess.Expense
	amount, ok := parseAmount(st.input)
	if !ok {
		return domain.Continue(fmt.Sprintf(
			"That doesn't look like a valid amount.\n\nPlease enter the amount you spent today on %s:",
			exp.Type)), nil
	}
	exp.Amount = amount

	tx := &domain.Transaction{
		Owner:      st.sess.Phone,
		Kind:       domain.KindExpense,
		Label:      exp.Type,
		Amount:     amount,
		OccurredAt: st.eng.now(),
	}
	err := st.eng.repo.CreateTransaction(st.ctx, tx, idemKey(st.sess, domain.StateExpenseAmount))
	if err != nil && !errors.Is(err, domain.ErrDuplicateWrite) {
		st.eng.logger.Error("expense write failed", "session_id", st.sess.ID, "err", err)
		return domain.Continue(fmt.Sprintf(
			"We hit a snag saving your expense. Please try again.\n\n"+
				"Please enter the amount you spent today on %s:", exp.Type)), nil
	}

	st.sess.State = domain.StateExpenseLogged
	return domain.Continue(fmt.Sprintf(
		"Awesome! Your expense of Ksh %s on %s has been recorded successfully.\n\n"+
			"What would you like to do next?\n1. Log another expense\n2. Back to Record Keeping",
		amount.String(), exp.Type)), nil
}

func renderExpenseLoggedNav(st *step) (string, error) {
	return "Would you like to:\n1. Log another expense\n2. Go back to Record Keeping", nil
}

var expenseLoggedState = menuHandler(renderExpenseLoggedNav, map[string]route{
	"1": {next: domain.StateLogExpenses, enter: enterLogExpenses},
	"2": {next: domain.StateRecordKeeping, enter: enterRecordKeeping},
})
