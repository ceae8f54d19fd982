package dialog

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LastToken extracts the newest keystroke from the gateway's
// cumulative input history. The gateway joins every entry the caller
// has made this session with "*"; only the final element is new.
// Returns "" on the very first request of a session.
func LastToken(text string) string {
	if text == "" {
		return ""
	}
	parts := strings.Split(text, "*")
	return strings.TrimSpace(parts[len(parts)-1])
}

// parseAmount parses a money amount. Non-numeric and non-positive
// values are rejected; callers re-prompt at the same state.
func parseAmount(s string) (decimal.Decimal, bool) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || amount.Sign() <= 0 {
		return decimal.Zero, false
	}
	return amount, true
}

// decimalFromInt lifts a quantity into the money domain.
func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

// parseQuantity parses a whole, positive quantity.
func parseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
