package dialog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tumaini/bizmanager/internal/dialog"
	"github.com/tumaini/bizmanager/pkg/domain"
)

func TestRevenueFlowDeductsStock(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-rev", testPhone)

	reply := drive(t, eng, repo, sess, "", "2", "1", "1", "50", "3")
	assert.False(t, reply.Terminal)
	assert.Contains(t, reply.Text, "Revenue of Ksh 50 logged successfully! 3 Brick(s) deducted")

	assert.Equal(t, 7, repo.stock[0].Quantity)
	require.Len(t, repo.txs, 1)
	tx := repo.txs[0]
	assert.Equal(t, domain.KindIncome, tx.Kind)
	assert.Equal(t, "Brick", tx.Label)
	assert.Equal(t, "50", tx.Amount.String())
	assert.Equal(t, 3, tx.Quantity)
	assert.Equal(t, testPhone, tx.Owner)
}

func TestRevenueFlowRejectsOverdraw(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-overdraw", testPhone)

	reply := drive(t, eng, repo, sess, "", "2", "1", "1", "50", "20")
	assert.True(t, reply.Terminal)
	assert.Contains(t, reply.Text, "You only have 10 Brick(s) in stock. Cannot deduct 20.")

	// No write of any kind happened.
	assert.Equal(t, 10, repo.stock[0].Quantity)
	assert.Empty(t, repo.txs)
	assert.Equal(t, domain.StateEnd, sess.State)
}

func TestRevenueFlowOutOfStock(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 0)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-empty", testPhone)

	reply := drive(t, eng, repo, sess, "", "2", "1", "1", "50", "1")
	assert.True(t, reply.Terminal)
	assert.Contains(t, reply.Text, "You are out of stock for Brick.")
	assert.Empty(t, repo.txs)
}

func TestRevenueFlowStockVanishedMidFlow(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-vanished", testPhone)

	drive(t, eng, repo, sess, "", "2", "1", "1", "50")
	repo.stock = nil

	reply := stepOnce(t, eng, repo, sess, "3")
	assert.True(t, reply.Terminal)
	assert.Contains(t, reply.Text, "no longer in your inventory")
	assert.Empty(t, repo.txs)
}

func TestRevenueFlowInvalidAmountAndQuantityReprompt(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-badinput", testPhone)

	drive(t, eng, repo, sess, "", "2", "1", "1")

	reply := stepOnce(t, eng, repo, sess, "-5")
	assert.Contains(t, reply.Text, "doesn't look like a valid amount")
	assert.Equal(t, domain.StateRevenueAmount, sess.State)

	stepOnce(t, eng, repo, sess, "50")
	reply = stepOnce(t, eng, repo, sess, "2.5")
	assert.Contains(t, reply.Text, "whole number greater than zero")
	assert.Equal(t, domain.StateRevenueQuantity, sess.State)
	assert.Empty(t, repo.txs)
}

func TestRevenueSagaCompensatesFailedDeduction(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-saga", testPhone)

	drive(t, eng, repo, sess, "", "2", "1", "1", "50")

	repo.failUpdateStock = true
	reply := stepOnce(t, eng, repo, sess, "3")
	assert.False(t, reply.Terminal)
	assert.Contains(t, reply.Text, "We hit a snag saving your revenue")
	assert.Equal(t, domain.StateRevenueQuantity, sess.State)

	// The income entry was reversed; nothing is half-applied.
	assert.Empty(t, repo.txs)
	assert.Equal(t, 10, repo.stock[0].Quantity)

	// The retry goes through cleanly.
	repo.failUpdateStock = false
	reply = stepOnce(t, eng, repo, sess, "3")
	assert.Contains(t, reply.Text, "Revenue of Ksh 50 logged successfully!")
	require.Len(t, repo.txs, 1)
	assert.Equal(t, 7, repo.stock[0].Quantity)
}

func TestRevenueDuplicateDeliveryDoesNotDoubleWrite(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-dup", testPhone)

	drive(t, eng, repo, sess, "", "2", "1", "1", "50")

	// A duplicate gateway delivery re-runs the step from the same
	// pre-step session snapshot.
	replaySess := *sess
	rev := *sess.Revenue
	replaySess.Revenue = &rev

	first := stepOnce(t, eng, repo, sess, "3")
	assert.Contains(t, first.Text, "logged successfully")

	second := stepOnce(t, eng, repo, &replaySess, "3")
	assert.Contains(t, second.Text, "logged successfully")

	require.Len(t, repo.txs, 1)
	assert.Equal(t, 7, repo.stock[0].Quantity)
}

func TestRevenueSecondSubmissionInSameSessionWritesTwice(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-twice", testPhone)

	drive(t, eng, repo, sess, "", "2", "1", "1", "50", "3")
	// "1" from the logged screen re-enters the revenue flow.
	reply := drive(t, eng, repo, sess, "1", "1", "75", "2")

	assert.Contains(t, reply.Text, "Revenue of Ksh 75 logged successfully! 2 Brick(s) deducted")
	require.Len(t, repo.txs, 2)
	assert.Equal(t, 5, repo.stock[0].Quantity)
}

func TestStockMenuEmptyInventory(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-nostock", testPhone)

	reply := drive(t, eng, repo, sess, "", "2", "1")
	assert.Contains(t, reply.Text, "You don't have any stocks yet")
	assert.False(t, reply.Terminal)

	// "0" backs out to record keeping.
	reply = stepOnce(t, eng, repo, sess, "0")
	assert.Contains(t, reply.Text, "Let's keep your records in check")
	assert.Equal(t, domain.StateRecordKeeping, sess.State)
}

func TestStockMenuIndexMapsOntoFreshList(t *testing.T) {
	repo := newFakeRepo()
	seedProfile(repo)
	seedStock(repo, "Brick", 10)
	seedStock(repo, "Cement", 5)
	eng := dialog.New(repo)
	sess := domain.NewSession("sess-pick", testPhone)

	reply := drive(t, eng, repo, sess, "", "2", "1", "2")
	assert.Contains(t, reply.Text, "Enter the revenue amount for Cement:")
	assert.Equal(t, "stock-2", sess.Revenue.StockID)
}
