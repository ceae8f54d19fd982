package dialog

import (
	"github.com/tumaini/bizmanager/pkg/domain"
)

var exportDataSupportState = menuHandler(renderExportMenu, map[string]route{
	"1": {next: domain.StateExportData, enter: terminate(
		"Data export requested. You will receive an SMS with your data in CSV format.")},
	"2": {next: domain.StateHelpAndSupport, enter: terminate("Feature not yet implemented.")},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

var loansState = menuHandler(renderLoansMenu, map[string]route{
	"1": {next: domain.StateEligibilityChecker, enter: prompt(
		"Answer a few questions to check eligibility.\nQ1: Do you have regular income? (1 for Yes, 2 for No)")},
	"2": {next: domain.StateLoanOverview, enter: terminate("Feature not yet implemented")},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

func renderEligibilityQuestion(st *step) (string, error) {
	return "Q1: Do you have regular income? (1 for Yes, 2 for No)", nil
}

// eligibilityCheckerState is the loans stub: the answer is
// acknowledged but no application exists yet.
var eligibilityCheckerState = menuHandler(renderEligibilityQuestion, map[string]route{
	"1": {next: domain.StateEnd, enter: terminate(
		"Thanks! Loan applications are coming soon. We'll notify you when eligibility checks open.")},
	"2": {next: domain.StateEnd, enter: terminate(
		"Thanks! A regular income helps with eligibility. We'll notify you when loans launch.")},
})
