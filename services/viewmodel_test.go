package services

import (
	"testing"

	"salescrm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildViewModelQuotation(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)
	require.NoError(t, db.Create(&models.User{
		UserID:   "USR0001",
		Name:     "Ramesh Kumar",
		Email:    "ramesh@example.com",
		Role:     "Admin",
		Password: []byte("test-password-hash"),
	}).Error)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)

	vm, err := BuildViewModel(db, q)
	require.NoError(t, err)

	assert.Equal(t, "Quotation", vm.Title)
	assert.Equal(t, "QTN0001/RAME", vm.DisplayNo)
	assert.Equal(t, "Acme Traders", vm.PartyName)
	assert.Equal(t, "27AAAAA0000A1Z5", vm.PartyGST)
	assert.Equal(t, "Ramesh Kumar", vm.CreatorName)
	assert.True(t, vm.HasDiscount)
	require.Len(t, vm.Lines, 2)

	// qty 10 * 100 less 10% = 900 taxable plus qty 1 * 4500 = 4500.
	assert.Equal(t, 5400.00, vm.Subtotal)
	assert.Equal(t, 702.00, vm.TaxTotal) // 162 + 540
	assert.Equal(t, 6102.00, vm.GrandTotal)

	// Two HSN groups, both intra-state so 50/50 CGST/SGST.
	require.Len(t, vm.TaxGroups, 2)
	g8413 := vm.TaxGroups[0]
	assert.Equal(t, "8413", g8413.HSN)
	assert.Equal(t, 270.00, g8413.CGST)
	assert.Equal(t, 270.00, g8413.SGST)
	assert.Zero(t, g8413.IGST)
	g8481 := vm.TaxGroups[1]
	assert.Equal(t, "8481", g8481.HSN)
	assert.Equal(t, 81.00, g8481.CGST)
	assert.Equal(t, 81.00, g8481.SGST)
}

func TestBuildViewModelInterState(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	pi, err := CreatePI(db, testActor, PIInput{
		PartyID: "PTY0002",
		Items:   []LineInput{{ItemID: "ITM0001", Qty: 2, Rate: 100}},
	})
	require.NoError(t, err)

	vm, err := BuildViewModel(db, pi)
	require.NoError(t, err)
	assert.Equal(t, "Proforma Invoice", vm.Title)
	assert.Equal(t, pi.PINo, vm.DisplayNo) // no creator suffix outside quotations
	assert.False(t, vm.HasDiscount)
	require.Len(t, vm.TaxGroups, 1)
	assert.Equal(t, 36.00, vm.TaxGroups[0].IGST)
	assert.Zero(t, vm.TaxGroups[0].CGST)
}

func TestBuildViewModelFallsBackToItemMaster(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)

	// Simulate a legacy row saved before snapshots carried the HSN.
	require.NoError(t, db.Model(&models.LineItem{}).
		Where("doc_id = ? AND item_id = ?", q.QuotationID, "ITM0001").
		Updates(map[string]any{"hsn": "", "item_name": ""}).Error)

	fresh, err := GetQuotation(db, q.QuotationID)
	require.NoError(t, err)
	vm, err := BuildViewModel(db, fresh)
	require.NoError(t, err)
	assert.Equal(t, "Gate Valve 50mm", vm.Lines[0].ItemName)
	assert.Equal(t, "8481", vm.Lines[0].HSN)
}

func TestBuildViewModelMissingParty(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q := &models.Quotation{QuotationID: "QTN0099", PartyID: "PTY9999"}
	_, err := BuildViewModel(db, q)
	assert.ErrorIs(t, err, ErrNotFound)
}
