package domain

// DialogState identifies where a caller is in the conversation.
// The value is persisted inside the session record between requests.
type DialogState string

const (
	StateStart DialogState = "start"

	// Registration branch (unregistered callers only).
	StateRegistration     DialogState = "registration"
	StateAboutUs          DialogState = "aboutUs"
	StateRegisterName     DialogState = "registerName"
	StateRegisterBusiness DialogState = "registerBusiness"
	StateRegisterLocation DialogState = "registerLocation"
	StateRegistrationEnd  DialogState = "registrationEnd"

	// Main menu and profile.
	StateMainMenu      DialogState = "mainMenu"
	StateUserProfile   DialogState = "userProfile"
	StateViewProfile   DialogState = "viewProfile"
	StateEditBasicInfo DialogState = "editBasicInfo"
	StateEditName      DialogState = "editName"
	StateEditBusiness  DialogState = "editBusiness"
	StateEditLocation  DialogState = "editLocation"
	StateProfileSaved  DialogState = "profileSaved"

	// Record keeping.
	StateRecordKeeping        DialogState = "recordKeeping"
	StateLogRevenue           DialogState = "logRevenue"
	StateRevenueAmount        DialogState = "revenueAmount"
	StateRevenueQuantity      DialogState = "revenueQuantity"
	StateRevenueLogged        DialogState = "revenueLogged"
	StateLogExpenses          DialogState = "logExpenses"
	StateExpenseAmount        DialogState = "expenseAmount"
	StateExpenseLogged        DialogState = "expenseLogged"
	StateInventoryManagement  DialogState = "inventoryManagement"
	StateStockName            DialogState = "stockName"
	StateStockQuantity        DialogState = "stockQuantity"
	StateStockUnitType        DialogState = "stockUnitType"
	StateStockUnitPrice       DialogState = "stockUnitPrice"
	StateStockAdded           DialogState = "stockAdded"
	StateCheckInventoryLevels DialogState = "checkInventoryLevels"

	// Summaries.
	StateBusinessHealthSummary DialogState = "businessHealthSummary"
	StateViewProfitLoss        DialogState = "viewProfitLoss"
	StateFinancialHealthScore  DialogState = "financialHealthScore"

	// Goals and tips.
	StateFinancialGoalsAndTips DialogState = "financialGoalsAndTips"
	StateSetFinancialGoals     DialogState = "setFinancialGoals"
	StateGoalSet               DialogState = "goalSet"
	StateSavingsAdvice         DialogState = "savingsAdvice"
	StateFinancialTips         DialogState = "financialTips"

	// Reminders.
	StateReminders            DialogState = "reminders"
	StateSetRecurringReminder DialogState = "setRecurringExpenseReminder"
	StateSetReminderInterval  DialogState = "setReminderInterval"
	StateReminderSet          DialogState = "reminderSet"
	StateSetCustomReminder    DialogState = "setCustomReminder"

	// Export, support and loans.
	StateExportDataSupport  DialogState = "exportDataSupport"
	StateExportData         DialogState = "exportData"
	StateHelpAndSupport     DialogState = "helpAndSupport"
	StateLoans              DialogState = "loans"
	StateEligibilityChecker DialogState = "eligibilityChecker"
	StateLoanOverview       DialogState = "loanOverview"

	// StateEnd is the terminal sink. A session that reaches it is
	// discarded; the gateway has already been told to hang up.
	StateEnd DialogState = "end"
)

// registrationBranch holds the states reachable by unregistered callers.
var registrationBranch = map[DialogState]bool{
	StateStart:            true,
	StateRegistration:     true,
	StateAboutUs:          true,
	StateRegisterName:     true,
	StateRegisterBusiness: true,
	StateRegisterLocation: true,
	StateRegistrationEnd:  true,
}

// InRegistrationBranch reports whether s belongs to the registration
// branch of the dialog graph.
func (s DialogState) InRegistrationBranch() bool {
	return registrationBranch[s]
}

// Terminal reports whether the state ends the conversation.
func (s DialogState) Terminal() bool {
	return s == StateEnd
}
