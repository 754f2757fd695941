package services

import (
	"testing"

	"salescrm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testActor = Actor{UserID: "USR0001", Role: "Admin", Name: "Ramesh Kumar"}

func seedMasters(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&models.Party{
		PartyID:   "PTY0001",
		PartyName: "Acme Traders",
		City:      "Pune",
		State:     "Maharashtra",
		GSTNumber: "27AAAAA0000A1Z5",
		Status:    "Active",
	}).Error)
	require.NoError(t, db.Create(&models.Party{
		PartyID:   "PTY0002",
		PartyName: "Deccan Supplies",
		City:      "Hyderabad",
		State:     "Telangana",
		Status:    "Active",
	}).Error)
	require.NoError(t, db.Create(&models.Item{
		ItemID:     "ITM0001",
		ItemCode:   "VLV-50",
		ItemName:   "Gate Valve 50mm",
		UOM:        "Nos",
		Rate:       100,
		HSN:        "8481",
		GSTPercent: 18,
	}).Error)
	require.NoError(t, db.Create(&models.Item{
		ItemID:     "ITM0002",
		ItemCode:   "PMP-1HP",
		ItemName:   "Monoblock Pump 1HP",
		UOM:        "Nos",
		Rate:       4500,
		HSN:        "8413",
		GSTPercent: 12,
	}).Error)
}

func quotationFixture() QuotationInput {
	return QuotationInput{
		PartyID:      "PTY0001",
		Date:         "2026-04-10",
		ValidityDays: 15,
		PaymentTerms: "50% advance",
		Remarks:      "urgent",
		Items: []LineInput{
			{ItemID: "ITM0001", Qty: 10, Rate: 100, DiscountPercent: 10},
			{ItemID: "ITM0002", Qty: 1, Rate: 4500},
		},
	}
}

func TestCreateQuotation(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)

	assert.Equal(t, "QTN0001", q.QuotationID)
	assert.Equal(t, "QTN0001", q.QuotationNo)
	assert.Equal(t, "Acme Traders", q.PartyNameSnapshot)
	assert.Equal(t, "USR0001", q.CreatedByUserID)
	assert.False(t, q.IsLocked)
	assert.Nil(t, q.QuotationStatus)
	require.Len(t, q.Items, 2)

	first := q.Items[0]
	assert.Equal(t, "Gate Valve 50mm", first.ItemName)
	assert.Equal(t, "8481", first.HSN)
	assert.Equal(t, 900.00, first.TaxableAmount)
	assert.Equal(t, models.TaxTypeIntraState, first.TaxType)
	assert.Equal(t, 162.00, first.TaxAmount)
	assert.Equal(t, 1062.00, first.TotalAmount)

	logs, err := DocumentHistory(db, models.DocTypeQuotation, q.QuotationID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionCreated, logs[0].Action)
	assert.Equal(t, 1, logs[0].VersionNo)

	var versions int64
	require.NoError(t, db.Model(&models.DocumentVersion{}).
		Where("document_id = ?", q.QuotationID).Count(&versions).Error)
	assert.EqualValues(t, 1, versions)
}

func TestCreateQuotationUnknownItem(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	in := quotationFixture()
	in.Items = []LineInput{{ItemID: "ITM9999", Qty: 1, Rate: 10}}
	_, err := CreateQuotation(db, testActor, in)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateQuotationReplacesLines(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)

	in := quotationFixture()
	in.PartyID = "PTY0002"
	in.Items = []LineInput{{ItemID: "ITM0002", Qty: 2, Rate: 4000}}
	updated, err := UpdateQuotation(db, testActor, q.QuotationID, in)
	require.NoError(t, err)

	assert.Equal(t, q.QuotationID, updated.QuotationID)
	assert.Equal(t, q.QuotationNo, updated.QuotationNo)
	assert.Equal(t, "Deccan Supplies", updated.PartyNameSnapshot)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, models.TaxTypeInterState, updated.Items[0].TaxType)
	assert.Equal(t, 8000.00, updated.Items[0].TaxableAmount)

	var stored int64
	require.NoError(t, db.Model(&models.LineItem{}).
		Where("doc_type = ? AND doc_id = ?", "QUOTATION", q.QuotationID).
		Count(&stored).Error)
	assert.EqualValues(t, 1, stored)
}

func TestLockedQuotationRejectsChanges(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)

	locked, err := LockQuotation(db, testActor, q.QuotationID)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	// Locking again is a no-op, not an error.
	_, err = LockQuotation(db, testActor, q.QuotationID)
	require.NoError(t, err)

	_, err = UpdateQuotation(db, testActor, q.QuotationID, quotationFixture())
	assert.ErrorIs(t, err, ErrConflict)
	err = DeleteQuotation(db, testActor, q.QuotationID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestDuplicateQuotationResets(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)
	_, err = LockQuotation(db, testActor, q.QuotationID)
	require.NoError(t, err)
	status := "Successful"
	require.NoError(t, db.Model(&models.Quotation{}).
		Where("quotation_id = ?", q.QuotationID).
		Update("quotation_status", status).Error)

	other := Actor{UserID: "USR0002", Role: "Sales User", Name: "Priya"}
	dup, err := DuplicateQuotation(db, other, q.QuotationID)
	require.NoError(t, err)

	assert.NotEqual(t, q.QuotationID, dup.QuotationID)
	assert.NotEqual(t, q.QuotationNo, dup.QuotationNo)
	assert.False(t, dup.IsLocked)
	assert.Nil(t, dup.QuotationStatus)
	assert.Equal(t, "USR0002", dup.CreatedByUserID)
	require.Len(t, dup.Items, 2)
	assert.Equal(t, q.Items[0].TaxableAmount, dup.Items[0].TaxableAmount)

	// Source is untouched.
	src, err := GetQuotation(db, q.QuotationID)
	require.NoError(t, err)
	assert.True(t, src.IsLocked)
}

func TestDeleteQuotationRemovesLines(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)
	require.NoError(t, DeleteQuotation(db, testActor, q.QuotationID))

	_, err = GetQuotation(db, q.QuotationID)
	assert.ErrorIs(t, err, ErrNotFound)
	var stored int64
	require.NoError(t, db.Model(&models.LineItem{}).
		Where("doc_id = ?", q.QuotationID).Count(&stored).Error)
	assert.Zero(t, stored)

	// The audit trail survives the document.
	logs, err := DocumentHistory(db, models.DocTypeQuotation, q.QuotationID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, ActionDeleted, logs[1].Action)
}

func TestPIAndSOADefaults(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	pi, err := CreatePI(db, testActor, PIInput{
		PartyID: "PTY0002",
		Items:   []LineInput{{ItemID: "ITM0001", Qty: 2, Rate: 100}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PI0001", pi.PIID)
	assert.Equal(t, "PI Submitted", pi.PIStatus)
	assert.Equal(t, 30, pi.ValidityDays)
	assert.Equal(t, models.TaxTypeInterState, pi.Items[0].TaxType)

	s, err := CreateSOA(db, testActor, SOAInput{
		PartyID:             "PTY0001",
		PartyConfirmationID: "PO-1142",
		Items:               []LineInput{{ItemID: "ITM0002", Qty: 1, Rate: 4500}},
	})
	require.NoError(t, err)
	assert.Equal(t, "SOA0001", s.SOAID)
	assert.Equal(t, "In Process", s.SOAStatus)
	assert.Equal(t, "PO-1142", s.PartyConfirmationID)
}

func TestSavedSnapshotsSurviveMasterEdits(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)

	// Reprice and rename the masters after the document is saved.
	require.NoError(t, db.Model(&models.Item{}).
		Where("item_id = ?", "ITM0001").
		Updates(map[string]any{"rate": 250, "gst_percent": 28, "item_name": "Gate Valve 50mm Mk2"}).Error)
	require.NoError(t, db.Model(&models.Party{}).
		Where("party_id = ?", "PTY0001").
		Update("party_name", "Acme Traders Pvt Ltd").Error)

	got, err := GetQuotation(db, q.QuotationID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	first := got.Items[0]
	assert.Equal(t, "Gate Valve 50mm", first.ItemName)
	assert.Equal(t, 100.00, first.Rate)
	assert.Equal(t, 18.0, first.GSTPercent)
	assert.Equal(t, 900.00, first.TaxableAmount)
	assert.Equal(t, 162.00, first.TaxAmount)
	assert.Equal(t, 1062.00, first.TotalAmount)
	assert.Equal(t, "Acme Traders", got.PartyNameSnapshot)

	// The rendered document keeps the saved values too.
	vm, err := BuildViewModel(db, got)
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", vm.PartyName)
	assert.Equal(t, 100.00, vm.Lines[0].Rate)
	assert.Equal(t, 1062.00, vm.Lines[0].TotalAmount)
	assert.Equal(t, 5400.00, vm.Subtotal)
}
