package dialog

import (
	"github.com/tumaini/bizmanager/pkg/domain"
)

// invalidBanner prefixes a re-rendered menu after an unrecognized
// choice. The menu text itself stays byte-identical.
const invalidBanner = "Invalid choice, please try again."

// route is one menu entry: the state the choice leads to and the
// handler that renders the first prompt of that state.
type route struct {
	next  domain.DialogState
	enter handlerFunc
}

// menuHandler builds the handler for a menu state from its renderer
// and the mapping of expected choices. An input outside the mapping
// re-renders the same menu with the error banner, leaves the state
// unchanged and performs no side effect.
func menuHandler(render func(st *step) (string, error), routes map[string]route) handlerFunc {
	return func(st *step) (domain.Reply, error) {
		r, ok := routes[st.input]
		if !ok {
			text, err := render(st)
			if err != nil {
				return domain.Reply{}, err
			}
			return domain.Continue(invalidBanner + "\n\n" + text), nil
		}

		st.sess.State = r.next
		return r.enter(st)
	}
}

// show wraps a renderer into a handler that just displays it.
func show(render func(st *step) (string, error)) handlerFunc {
	return func(st *step) (domain.Reply, error) {
		text, err := render(st)
		if err != nil {
			return domain.Reply{}, err
		}
		return domain.Continue(text), nil
	}
}

// unregisteredStates is the registration branch: everything a caller
// without a profile can reach.
var unregisteredStates = map[domain.DialogState]handlerFunc{
	domain.StateStart:            startUnregistered,
	domain.StateRegistration:     registrationMenuState,
	domain.StateAboutUs:          aboutUsState,
	domain.StateRegisterName:     registerNameState,
	domain.StateRegisterBusiness: registerBusinessState,
	domain.StateRegisterLocation: registerLocationState,
}

// registeredStates is the main branch behind the profile check.
var registeredStates = map[domain.DialogState]handlerFunc{
	domain.StateStart:           startRegistered,
	domain.StateRegistrationEnd: registrationEndState,
	domain.StateMainMenu:        mainMenuState,

	domain.StateUserProfile:   userProfileState,
	domain.StateViewProfile:   viewProfileState,
	domain.StateEditBasicInfo: editBasicInfoState,
	domain.StateEditName:      editNameState,
	domain.StateEditBusiness:  editBusinessState,
	domain.StateEditLocation:  editLocationState,
	domain.StateProfileSaved:  profileSavedState,

	domain.StateRecordKeeping:        recordKeepingState,
	domain.StateLogRevenue:           logRevenueState,
	domain.StateRevenueAmount:        revenueAmountState,
	domain.StateRevenueQuantity:      revenueQuantityState,
	domain.StateRevenueLogged:        revenueLoggedState,
	domain.StateLogExpenses:          logExpensesState,
	domain.StateExpenseAmount:        expenseAmountState,
	domain.StateExpenseLogged:        expenseLoggedState,
	domain.StateInventoryManagement:  inventoryManagementState,
	domain.StateStockName:            stockNameState,
	domain.StateStockQuantity:        stockQuantityState,
	domain.StateStockUnitType:        stockUnitTypeState,
	domain.StateStockUnitPrice:       stockUnitPriceState,
	domain.StateStockAdded:           stockAddedState,
	domain.StateCheckInventoryLevels: checkInventoryLevelsState,

	domain.StateBusinessHealthSummary: businessHealthSummaryState,

	domain.StateFinancialGoalsAndTips: financialGoalsAndTipsState,
	domain.StateSetFinancialGoals:     setFinancialGoalsState,
	domain.StateGoalSet:               goalSetState,
	domain.StateFinancialTips:         financialTipsState,

	domain.StateReminders:            remindersState,
	domain.StateSetRecurringReminder: setRecurringReminderState,
	domain.StateSetReminderInterval:  setReminderIntervalState,
	domain.StateReminderSet:          reminderSetState,

	domain.StateExportDataSupport:  exportDataSupportState,
	domain.StateLoans:              loansState,
	domain.StateEligibilityChecker: eligibilityCheckerState,
}
