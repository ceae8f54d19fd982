package dialog

import (
	"fmt"

	"github.com/tumaini/bizmanager/pkg/domain"
	"github.com/tumaini/bizmanager/pkg/ports"
)

// startRegistered routes a known phone number straight to the main
// menu on the first request of a session.
func startRegistered(st *step) (domain.Reply, error) {
	st.sess.State = domain.StateMainMenu
	return show(renderMainMenu)(st)
}

var mainMenuState = menuHandler(renderMainMenu, map[string]route{
	"1": {next: domain.StateUserProfile, enter: show(renderProfileMenu)},
	"2": {next: domain.StateRecordKeeping, enter: enterRecordKeeping},
	"3": {next: domain.StateBusinessHealthSummary, enter: show(renderHealthMenu)},
	"4": {next: domain.StateFinancialGoalsAndTips, enter: show(renderGoalsMenu)},
	"5": {next: domain.StateReminders, enter: show(renderRemindersMenu)},
	"6": {next: domain.StateExportDataSupport, enter: show(renderExportMenu)},
	"7": {next: domain.StateLoans, enter: show(renderLoansMenu)},
	"0": {next: domain.StateEnd, enter: goodbye},
})

var userProfileState = menuHandler(renderProfileMenu, map[string]route{
	"1": {next: domain.StateViewProfile, enter: show(renderProfileDetails)},
	"2": {next: domain.StateEditBasicInfo, enter: show(renderEditMenu)},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

var viewProfileState = menuHandler(renderProfileDetails, map[string]route{
	"0": {next: domain.StateUserProfile, enter: show(renderProfileMenu)},
})

var editBasicInfoState = menuHandler(renderEditMenu, map[string]route{
	"1": {next: domain.StateEditName, enter: prompt("Enter name to update:")},
	"2": {next: domain.StateEditBusiness, enter: prompt("Enter new business type:")},
	"3": {next: domain.StateEditLocation, enter: prompt("Enter the new location:")},
	"0": {next: domain.StateUserProfile, enter: show(renderProfileMenu)},
})

func editNameState(st *step) (domain.Reply, error) {
	return saveProfileEdit(st, "name", "Enter name to update:", func(v string) ports.ProfileUpdate {
		return ports.ProfileUpdate{Name: &v}
	})
}

func editBusinessState(st *step) (domain.Reply, error) {
	return saveProfileEdit(st, "business type", "Enter new business type:", func(v string) ports.ProfileUpdate {
		return ports.ProfileUpdate{Business: &v}
	})
}

func editLocationState(st *step) (domain.Reply, error) {
	return saveProfileEdit(st, "location", "Enter the new location:", func(v string) ports.ProfileUpdate {
		return ports.ProfileUpdate{Location: &v}
	})
}

// saveProfileEdit applies one profile field update. A failed write
// keeps the caller on the edit step so they can retry.
func saveProfileEdit(st *step, field, reprompt string, build func(string) ports.ProfileUpdate) (domain.Reply, error) {
	if st.input == "" {
		return domain.Continue("Please enter a value.\n\n" + reprompt), nil
	}

	if err := st.eng.repo.UpdateProfile(st.ctx, st.facts.Profile.ID, build(st.input)); err != nil {
		st.eng.logger.Error("profile update failed", "session_id", st.sess.ID, "err", err)
		return domain.Continue(
			"We couldn't save that change just now. Please try again.\n\n" + reprompt), nil
	}

	st.sess.State = domain.StateProfileSaved
	return domain.Continue(fmt.Sprintf(
		"Your %s has been updated to %s\n\n0. Back to Main Menu", field, st.input)), nil
}

func renderProfileSaved(st *step) (string, error) {
	return "Your details have been updated.\n\n0. Back to Main Menu", nil
}

// profileSavedState waits for the next request before leaving the
// confirmation; it never falls through into another branch.
var profileSavedState = menuHandler(renderProfileSaved, map[string]route{
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

// prompt builds a handler that shows a fixed collection prompt.
func prompt(text string) handlerFunc {
	return func(st *step) (domain.Reply, error) {
		return domain.Continue(text), nil
	}
}

// terminate builds a handler that ends the conversation with a fixed
// message.
func terminate(text string) handlerFunc {
	return func(st *step) (domain.Reply, error) {
		return domain.Terminate(text), nil
	}
}
