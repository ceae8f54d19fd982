package dialog

import (
	"fmt"
	"strings"

	"github.com/tumaini/bizmanager/pkg/domain"
)

var businessHealthSummaryState = menuHandler(renderHealthMenu, map[string]route{
	"1": {next: domain.StateViewProfitLoss, enter: profitLossSummary},
	"2": {next: domain.StateFinancialHealthScore, enter: terminate("Feature not yet implemented")},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

// profitLossSummary aggregates the month's transactions and ends the
// session with the formatted report. A fetch failure drops the caller
// back onto the health menu instead of losing the conversation.
func profitLossSummary(st *step) (domain.Reply, error) {
	reply, err := periodSummary(st, domain.PeriodMonth)
	if err != nil {
		st.eng.logger.Error("summary fetch failed", "session_id", st.sess.ID, "err", err)
		st.sess.State = domain.StateBusinessHealthSummary
		text, renderErr := renderHealthMenu(st)
		if renderErr != nil {
			return domain.Reply{}, renderErr
		}
		return domain.Continue(
			"We couldn't fetch your records right now. Please try again.\n\n" + text), nil
	}
	return reply, nil
}

func periodSummary(st *step, period domain.Period) (domain.Reply, error) {
	since := period.Start(st.eng.now())
	txs, err := st.eng.repo.ListTransactionsSince(st.ctx, st.sess.Phone, since)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	s := domain.Summarize(txs)
	return domain.Terminate(fmt.Sprintf(
		"%s's Summary:\n\nTotal Income: Ksh %s\nTotal Expenses: Ksh %s\n"+
			"Net Profit / Loss: Ksh %s\nSuggested Savings: Ksh %s",
		strings.ToUpper(string(period)),
		s.Income.String(), s.Expenses.String(), s.Profit().String(),
		s.SuggestedSavings().String())), nil
}
