package dialog

import (
	"errors"
	"fmt"

	"github.com/tumaini/bizmanager/pkg/domain"
)

var remindersState = menuHandler(renderRemindersMenu, map[string]route{
	"1": {next: domain.StateSetRecurringReminder, enter: enterSetReminder},
	"2": {next: domain.StateSetCustomReminder, enter: terminate("Feature not yet implemented")},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

func enterSetReminder(st *step) (domain.Reply, error) {
	st.sess.Seq++
	st.sess.Reminder = &domain.ReminderData{}
	return domain.Continue("Enter amount for recurring expense (in Ksh):"), nil
}

func setRecurringReminderState(st *step) (domain.Reply, error) {
	amount, ok := parseAmount(st.input)
	if !ok {
		return domain.Continue(
			"That doesn't look like a valid amount.\n\nEnter amount for recurring expense (in Ksh):"), nil
	}
	st.sess.Reminder.Amount = amount
	st.sess.State = domain.StateSetReminderInterval
	return domain.Continue("Enter interval (e.g., weekly, monthly):"), nil
}

// setReminderIntervalState stores the caller's typed interval and
// persists the reminder.
func setReminderIntervalState(st *step) (domain.Reply, error) {
	if st.input == "" {
		return domain.Continue("Please enter an interval (e.g., weekly, monthly):"), nil
	}
	rem := st.sess.Reminder
	rem.Interval = st.input

	reminder := &domain.Reminder{
		Owner:    st.sess.Phone,
		Amount:   rem.Amount,
		Interval: rem.Interval,
		SetAt:    st.eng.now(),
	}
	err := st.eng.repo.CreateReminder(st.ctx, reminder, idemKey(st.sess, domain.StateSetReminderInterval))
	if err != nil && !errors.Is(err, domain.ErrDuplicateWrite) {
		st.eng.logger.Error("reminder write failed", "session_id", st.sess.ID, "err", err)
		return domain.Continue(
			"We couldn't save your reminder just now. Please try again.\n\n" +
				"Enter interval (e.g., weekly, monthly):"), nil
	}

	st.sess.State = domain.StateReminderSet
	return domain.Continue(fmt.Sprintf(
		"Recurring reminder set for Ksh %s %s.\n1. Back to Reminders\n0. Main Menu",
		rem.Amount.String(), rem.Interval)), nil
}

func renderReminderSetNav(st *step) (string, error) {
	return "What next?\n1. Back to Reminders\n0. Main Menu", nil
}

var reminderSetState = menuHandler(renderReminderSetNav, map[string]route{
	"1": {next: domain.StateReminders, enter: show(renderRemindersMenu)},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})
