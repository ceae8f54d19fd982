package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tumaini/bizmanager/pkg/domain"
)

var inventoryManagementState = menuHandler(renderInventoryMenu, map[string]route{
	"1": {next: domain.StateStockName, enter: enterAddStock},
	"2": {next: domain.StateCheckInventoryLevels, enter: show(renderInventoryLevels)},
	"0": {next: domain.StateRecordKeeping, enter: enterRecordKeeping},
})

func enterAddStock(st *step) (domain.Reply, error) {
	st.sess.Seq++
	st.sess.Stock = &domain.StockData{}
	return domain.Continue(
		"Let's add a new stock to your inventory.\n\nPlease enter the stock name:"), nil
}

func stockNameState(st *step) (domain.Reply, error) {
	if st.input == "" {
		return domain.Continue("Please enter the stock name:"), nil
	}
	st.sess.Stock.Name = st.input
	st.sess.State = domain.StateStockQuantity
	return domain.Continue(fmt.Sprintf(
		"Got it! Now, how much of %s are you adding?\n\nEnter the quantity:", st.input)), nil
}

func stockQuantityState(st *step) (domain.Reply, error) {
	stock := st.sess.Stock
	qty, ok := parseQuantity(st.input)
	if !ok {
		return domain.Continue(fmt.Sprintf(
			"Please enter a whole number greater than zero.\n\nHow much of %s are you adding?",
			stock.Name)), nil
	}
	stock.Quantity = qty
	st.sess.State = domain.StateStockUnitType
	return domain.Continue(fmt.Sprintf(
		"Great! Now, what's the unit type for %s?\n\n"+
			"For example:\n- Use 'kg', 'tonnes', or 'grams' for weights.\n"+
			"- Use 'shirts', 'bricks', or 'onions' for specific items.", stock.Name)), nil
}

func stockUnitTypeState(st *step) (domain.Reply, error) {
	stock := st.sess.Stock
	if st.input == "" {
		return domain.Continue(fmt.Sprintf("What's the unit type for %s?", stock.Name)), nil
	}
	stock.Unit = st.input
	st.sess.State = domain.StateStockUnitPrice
	return domain.Continue(fmt.Sprintf(
		"Almost done! Please enter the price per %s.\n\n"+
			"For example:\n- If the price is Ksh 400 per %s, enter 400.",
		stock.Unit, stock.Unit)), nil
}

// stockUnitPriceState performs the add-stock flow's single write.
func stockUnitPriceState(st *step) (domain.Reply, error) {
	stock := st.sess.Stock
	price, ok := parseAmount(st.input)
	if !ok {
		return domain.Continue(fmt.Sprintf(
			"That doesn't look like a valid price.\n\nPlease enter the price per %s:",
			stock.Unit)), nil
	}
	stock.UnitPrice = price

	item := &domain.StockItem{
		Owner:     st.sess.Phone,
		Name:      stock.Name,
		Quantity:  stock.Quantity,
		UnitPrice: price,
		Unit:      stock.Unit,
	}
	err := st.eng.repo.CreateStockItem(st.ctx, item, idemKey(st.sess, domain.StateStockUnitPrice))
	if err != nil && !errors.Is(err, domain.ErrDuplicateWrite) {
		st.eng.logger.Error("stock write failed", "session_id", st.sess.ID, "err", err)
		return domain.Continue(fmt.Sprintf(
			"We hit a snag saving your stock. Please try again.\n\nPlease enter the price per %s:",
			stock.Unit)), nil
	}

	total := price.Mul(decimalFromInt(stock.Quantity))
	st.sess.State = domain.StateStockAdded
	return domain.Continue(fmt.Sprintf(
		"Success! Your stock has been added.\n\nDetails:\n"+
			"- Stock Name: %s\n- Quantity: %d %s\n- Price per %s: Ksh %s\n- Total Value: Ksh %s\n\n"+
			"What would you like to do next?\n1. Back to Inventory\n0. Main Menu",
		stock.Name, stock.Quantity, stock.Unit, stock.Unit, price.String(), total.String())), nil
}

func renderStockAddedNav(st *step) (string, error) {
	return "What would you like to do next?\n1. Back to Inventory\n0. Main Menu", nil
}

var stockAddedState = menuHandler(renderStockAddedNav, map[string]route{
	"1": {next: domain.StateInventoryManagement, enter: show(renderInventoryMenu)},
	"0": {next: domain.StateMainMenu, enter: enterMainMenu},
})

// renderInventoryLevels shows current quantities, fetched fresh.
func renderInventoryLevels(st *step) (string, error) {
	items, err := st.eng.repo.ListStockForOwner(st.ctx, st.sess.Phone)
	if err != nil {
		return "", fmt.Errorf("failed to list stock: %w", err)
	}

	var b strings.Builder
	if len(items) == 0 {
		b.WriteString("Your inventory is empty.\n")
	} else {
		b.WriteString("Current inventory levels:\n")
		for _, item := range items {
			fmt.Fprintf(&b, "%s: %d %s\n", item.Name, item.Quantity, item.Unit)
		}
	}
	b.WriteString("\n1. Back to Inventory Management\n0. Quit")
	return b.String(), nil
}

var checkInventoryLevelsState = menuHandler(renderInventoryLevels, map[string]route{
	"1": {next: domain.StateInventoryManagement, enter: show(renderInventoryMenu)},
	"0": {next: domain.StateEnd, enter: goodbye},
})
