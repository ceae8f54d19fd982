package dialog

import (
	"errors"
	"fmt"

	"github.com/tumaini/bizmanager/pkg/domain"
)

// startUnregistered greets an unknown phone number. The first request
// of a session carries no input; whatever arrives is ignored.
func startUnregistered(st *step) (domain.Reply, error) {
	st.sess.State = domain.StateRegistration
	return show(renderRegistrationMenu)(st)
}

var registrationMenuState = menuHandler(renderRegistrationMenu, map[string]route{
	"1": {next: domain.StateRegisterName, enter: enterRegisterName},
	"2": {next: domain.StateAboutUs, enter: show(renderAboutUs)},
	"0": {next: domain.StateEnd, enter: goodbye},
})

var aboutUsState = menuHandler(renderAboutUs, map[string]route{
	"0": {next: domain.StateRegistration, enter: show(renderRegistrationMenu)},
})

func enterRegisterName(st *step) (domain.Reply, error) {
	st.sess.Seq++
	st.sess.Registration = &domain.RegistrationData{}
	return domain.Continue("Great! Let's begin the registration process.\n\nWhat's your name?"), nil
}

func registerNameState(st *step) (domain.Reply, error) {
	if st.input == "" {
		return domain.Continue("Please enter your name to continue.\n\nWhat's your name?"), nil
	}
	st.sess.Registration.Name = st.input
	st.sess.State = domain.StateRegisterBusiness
	return domain.Continue(fmt.Sprintf(
		"Nice to meet you, %s!\n\nWhat type of business do you run? (e.g., Retail, Trade, School, etc.)",
		st.input)), nil
}

func registerBusinessState(st *step) (domain.Reply, error) {
	if st.input == "" {
		return domain.Continue("Please tell us your business type.\n\nWhat type of business do you run?"), nil
	}
	reg := st.sess.Registration
	reg.Business = st.input
	st.sess.State = domain.StateRegisterLocation
	return domain.Continue(fmt.Sprintf(
		"Got it! Managing a %s business is exciting, %s.\n\nNow, please share your business location.",
		reg.Business, reg.Name)), nil
}

// registerLocationState is the registration flow's terminal step: it
// performs the single profile write and moves to the confirmation.
func registerLocationState(st *step) (domain.Reply, error) {
	if st.input == "" {
		return domain.Continue("Please share your business location to finish up."), nil
	}
	reg := st.sess.Registration
	reg.Location = st.input

	profile := &domain.Profile{
		Phone:    st.sess.Phone,
		Name:     reg.Name,
		Business: reg.Business,
		Location: reg.Location,
	}
	err := st.eng.repo.CreateProfile(st.ctx, profile, idemKey(st.sess, domain.StateRegisterLocation))
	if err != nil && !errors.Is(err, domain.ErrDuplicateWrite) {
		// Stay on this step with the answers intact so the caller can
		// retry without re-entering anything but the location.
		st.eng.logger.Error("profile write failed", "session_id", st.sess.ID, "err", err)
		return domain.Continue(
			"We couldn't save your registration just now. Please try again.\n\n" +
				"Please share your business location."), nil
	}

	st.sess.State = domain.StateRegistrationEnd
	return domain.Continue(fmt.Sprintf(
		"Registration complete, %s!\n\nYou're now set to manage your %s business effectively.\n"+
			"What would you like to do next?\n1. Go to Main Menu\n2. Quit",
		reg.Name, reg.Business)), nil
}

// renderRegistrationEnd re-renders the confirmation for a caller who
// is registered by now, so the details come from the stored profile.
func renderRegistrationEnd(st *step) (string, error) {
	p := st.facts.Profile
	return fmt.Sprintf(
		"Registration complete, %s!\n\nYou're now set to manage your %s business effectively.\n"+
			"What would you like to do next?\n1. Go to Main Menu\n2. Quit",
		p.Name, p.Business), nil
}

var registrationEndState = menuHandler(renderRegistrationEnd, map[string]route{
	"1": {next: domain.StateMainMenu, enter: enterMainMenu},
	"2": {next: domain.StateEnd, enter: goodbye},
})
