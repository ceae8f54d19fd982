package dialog

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tumaini/bizmanager/pkg/domain"
)

var recordKeepingState = menuHandler(renderRecordKeepingMenu, map[string]route{
	"1": {next: domain.StateLogRevenue, enter: enterLogRevenue},
	"2": {next: domain.StateLogExpenses, enter: enterLogExpenses},
	"3": {next: domain.StateInventoryManagement, enter: show(renderInventoryMenu)},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

func enterLogRevenue(st *step) (domain.Reply, error) {
	st.sess.Seq++
	st.sess.Revenue = &domain.RevenueData{}
	return show(renderStockMenu)(st)
}

// logRevenueState interprets the caller's 1-based pick from the stock
// list. The list is re-fetched so the index maps onto current stock,
// not the one rendered a request ago.
func logRevenueState(st *step) (domain.Reply, error) {
	if st.input == "0" {
		st.sess.State = domain.StateRecordKeeping
		return enterRecordKeeping(st)
	}

	items, err := st.eng.repo.ListStockForOwner(st.ctx, st.sess.Phone)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("failed to list stock: %w", err)
	}

	idx, convErr := strconv.Atoi(st.input)
	if convErr != nil || idx < 1 || idx > len(items) {
		text, err := renderStockMenu(st)
		if err != nil {
			return domain.Reply{}, err
		}
		return domain.Continue(invalidBanner + "\n\n" + text), nil
	}

	picked := items[idx-1]
	st.sess.Revenue.StockID = picked.ID
	st.sess.Revenue.StockName = picked.Name
	st.sess.State = domain.StateRevenueAmount
	return domain.Continue(fmt.Sprintf("Enter the revenue amount for %s:", picked.Name)), nil
}

func revenueAmountState(st *step) (domain.Reply, error) {
	rev := st.sess.Revenue
	amount, ok := parseAmount(st.input)
	if !ok {
		return domain.Continue(fmt.Sprintf(
			"That doesn't look like a valid amount.\n\nEnter the revenue amount for %s:",
			rev.StockName)), nil
	}

	rev.Amount = amount
	st.sess.State = domain.StateRevenueQuantity
	return domain.Continue(fmt.Sprintf(
		"Got it! Now, how much of %s have you sold today in quantity?\n\nEnter the quantity:",
		rev.StockName)), nil
}

// revenueQuantityState is the revenue flow's terminal step. The stock
// line is re-fetched and the deduction validated before anything is
// written; the write itself is a two-step saga (transaction, then
// stock update) with the transaction deleted again if the update
// fails.
func revenueQuantityState(st *step) (domain.Reply, error) {
	rev := st.sess.Revenue
	qty, ok := parseQuantity(st.input)
	if !ok {
		return domain.Continue("Please enter a whole number greater than zero.\n\nEnter the quantity:"), nil
	}

	stock, err := st.eng.repo.FindStockItem(st.ctx, rev.StockID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Terminate(fmt.Sprintf(
				"Error: %s is no longer in your inventory. Nothing was recorded.", rev.StockName)), nil
		}
		return domain.Reply{}, fmt.Errorf("failed to load stock: %w", err)
	}

	if stock.Quantity == 0 {
		return domain.Terminate(fmt.Sprintf("Error: You are out of stock for %s.", stock.Name)), nil
	}
	if qty > stock.Quantity {
		return domain.Terminate(fmt.Sprintf(
			"Error: You only have %d %s(s) in stock. Cannot deduct %d.",
			stock.Quantity, stock.Name, qty)), nil
	}

	rev.Quantity = qty
	tx := &domain.Transaction{
		Owner:      st.sess.Phone,
		Kind:       domain.KindIncome,
		Label:      stock.Name,
		Amount:     rev.Amount,
		Quantity:   qty,
		OccurredAt: st.eng.now(),
	}

	err = st.eng.repo.CreateTransaction(st.ctx, tx, idemKey(st.sess, domain.StateRevenueQuantity))
	switch {
	case err == nil:
		if uerr := st.eng.repo.UpdateStockQuantity(st.ctx, stock.ID, stock.Quantity-qty); uerr != nil {
			// Compensate: reverse the income entry so the ledger and the
			// inventory stay consistent with each other.
			st.eng.logger.Error("stock deduction failed, reversing transaction",
				"session_id", st.sess.ID, "transaction_id", tx.ID, "err", uerr)
			if delErr := st.eng.repo.DeleteTransaction(st.ctx, tx.ID); delErr != nil {
				st.eng.logger.Error("compensation failed, transaction left dangling",
					"transaction_id", tx.ID, "err", delErr)
			}
			return domain.Continue(
				"We hit a snag saving your revenue. Please try again.\n\nEnter the quantity:"), nil
		}
	case errors.Is(err, domain.ErrDuplicateWrite):
		// A duplicate delivery of this exact submission. The first one
		// already deducted the stock; deducting again would double-count.
	default:
		st.eng.logger.Error("revenue write failed", "session_id", st.sess.ID, "err", err)
		return domain.Continue(
			"We hit a snag saving your revenue. Please try again.\n\nEnter the quantity:"), nil
	}

	st.sess.State = domain.StateRevenueLogged
	return domain.Continue(fmt.Sprintf(
		"Revenue of Ksh %s logged successfully! %d %s(s) deducted from inventory.\n\n"+
			"1. Back to revenue logging menu\n2. Back to Main Menu",
		rev.Amount.String(), qty, stock.Name)), nil
}

func renderRevenueLoggedNav(st *step) (string, error) {
	return "What would you like to do next?\n1. Back to revenue logging menu\n2. Back to Main Menu", nil
}

var revenueLoggedState = menuHandler(renderRevenueLoggedNav, map[string]route{
	"1": {next: domain.StateLogRevenue, enter: enterLogRevenue},
	"2": {next: domain.StateMainMenu, enter: enterMainMenu},
})
