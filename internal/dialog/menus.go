package dialog

import (
	"fmt"
	"strings"

	"github.com/tumaini/bizmanager/pkg/domain"
)

// Menu renderers. Each is used both for the first display of its state
// and for the re-render after an invalid choice, so the text stays
// identical between the two.

func renderRegistrationMenu(st *step) (string, error) {
	return "Welcome to BizManager!\n" +
		"I'm excited to help you manage and grow your business. Let's get started:\n" +
		"1. Register Now\n" +
		"2. Learn About Us\n" +
		"0. Quit", nil
}

func renderAboutUs(st *step) (string, error) {
	return "BizManager is your partner in managing finances and records for MSMEs. " +
		"We empower businesses like yours to thrive.\n" +
		"0. Back", nil
}

func renderMainMenu(st *step) (string, error) {
	name := "there"
	if st.facts.Profile != nil && st.facts.Profile.Name != "" {
		name = st.facts.Profile.Name
	}
	return fmt.Sprintf("Hi %s! Let's take care of your business today:\n", name) +
		"1. My Profile\n" +
		"2. Record Keeping\n" +
		"3. Business Health Check\n" +
		"4. Financial Goals & Tips\n" +
		"5. Reminders\n" +
		"6. Data Export/Support\n" +
		"7. Loans (Coming Soon)\n" +
		"0. Exit", nil
}

func renderProfileMenu(st *step) (string, error) {
	return "Let's look at your profile:\n" +
		"1. View My Profile\n" +
		"2. Update My Details\n" +
		"0. Back to Main Menu", nil
}

func renderProfileDetails(st *step) (string, error) {
	p := st.facts.Profile
	return fmt.Sprintf("User Details\n\nName: %s\nBusiness Type: %s\nLocation: %s\n\n0. Back",
		p.Name, p.Business, p.Location), nil
}

func renderEditMenu(st *step) (string, error) {
	return "What would you like to update?\n" +
		"1. My Name\n" +
		"2. My Business Type\n" +
		"3. My Location\n" +
		"0. Back to Profile", nil
}

func renderRecordKeepingMenu(st *step) (string, error) {
	return "Let's keep your records in check:\n" +
		"1. Log My Revenue\n" +
		"2. Log My Expenses\n" +
		"3. Manage My Inventory\n" +
		"0. Back to Main Menu", nil
}

// renderStockMenu lists the caller's live stock, fetched fresh on every
// render so the list never goes stale across requests.
func renderStockMenu(st *step) (string, error) {
	items, err := st.eng.repo.ListStockForOwner(st.ctx, st.sess.Phone)
	if err != nil {
		return "", fmt.Errorf("failed to list stock: %w", err)
	}

	if len(items) == 0 {
		return "Oops! You don't have any stocks yet.\n" +
			"Add or update your inventory to start logging revenue.\n" +
			"0. Back to Record Keeping", nil
	}

	var b strings.Builder
	b.WriteString("Pick a stock to log today's revenue:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
	}
	b.WriteString("0. Back to Record Keeping")
	return b.String(), nil
}

func renderInventoryMenu(st *step) (string, error) {
	return "Let's manage your inventory:\n" +
		"1. Add New Stock\n" +
		"2. Check Inventory Levels\n" +
		"0. Back to Record Keeping", nil
}

func renderHealthMenu(st *step) (string, error) {
	return "How's your business doing? Let's find out:\n" +
		"1. View Profit or Loss\n" +
		"2. Check Financial Health\n" +
		"0. Back to Main Menu", nil
}

func renderGoalsMenu(st *step) (string, error) {
	return "Let's set some goals or get tips to grow:\n" +
		"1. Set My Financial Goals\n" +
		"2. Get Savings Advice\n" +
		"3. Learn Financial Tips\n" +
		"0. Back to Main Menu", nil
}

func renderRemindersMenu(st *step) (string, error) {
	return "Never miss a beat! Set a reminder:\n" +
		"1. Add Recurring Expense Reminder\n" +
		"2. Add Custom Reminder\n" +
		"0. Back to Main Menu", nil
}

func renderExportMenu(st *step) (string, error) {
	return "Need your data or help? We're here:\n" +
		"1. Export My Data\n" +
		"2. Help & Support\n" +
		"0. Back to Main Menu", nil
}

func renderLoansMenu(st *step) (string, error) {
	return "Loans are coming soon!\n" +
		"1. Check My Eligibility\n" +
		"2. Learn About Loans\n" +
		"0. Back to Main Menu", nil
}

// goodbye terminates the conversation with the dial-back hint.
func goodbye(st *step) (domain.Reply, error) {
	name := "there"
	if st.facts.Profile != nil && st.facts.Profile.Name != "" {
		name = st.facts.Profile.Name
	} else if st.sess.Registration != nil && st.sess.Registration.Name != "" {
		name = st.sess.Registration.Name
	}
	return domain.Terminate(fmt.Sprintf(
		"Thanks so much, %s, for letting us be part of your business journey!\n"+
			"Whenever you're ready, dial *384*68949# to get back to your personal business assistant.\n"+
			"Have a wonderful day ahead!", name)), nil
}

// enterMainMenu is the shared route target for every "back to main
// menu" choice. Returning to the hub discards any half-finished flow.
func enterMainMenu(st *step) (domain.Reply, error) {
	st.sess.ResetFlows()
	return show(renderMainMenu)(st)
}

// enterRecordKeeping mirrors enterMainMenu for the record-keeping hub.
func enterRecordKeeping(st *step) (domain.Reply, error) {
	st.sess.ResetFlows()
	return show(renderRecordKeepingMenu)(st)
}
