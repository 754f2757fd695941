package services

import (
	"testing"

	"salescrm-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertQuotationToPI(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)

	pi, err := ConvertToPI(db, testActor, models.DocTypeQuotation, q.QuotationID)
	require.NoError(t, err)

	assert.Equal(t, "PI0001", pi.PIID)
	require.NotNil(t, pi.ReferenceDocumentID)
	assert.Equal(t, q.QuotationID, *pi.ReferenceDocumentID)
	assert.Equal(t, q.PartyID, pi.PartyID)
	assert.Equal(t, "Acme Traders", pi.PartyNameSnapshot)
	assert.Equal(t, q.ValidityDays, pi.ValidityDays)
	assert.Equal(t, q.PaymentTerms, pi.PaymentTerms)
	assert.Equal(t, "PI Submitted", pi.PIStatus)
	assert.False(t, pi.IsLocked)

	// Line rows copy verbatim, amounts included.
	require.Len(t, pi.Items, len(q.Items))
	assert.Equal(t, q.Items[0].TaxableAmount, pi.Items[0].TaxableAmount)
	assert.Equal(t, q.Items[0].HSN, pi.Items[0].HSN)

	logs, err := DocumentHistory(db, models.DocTypePI, pi.PIID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionCreatedFromQTN, logs[0].Action)

	// Source unchanged.
	src, err := GetQuotation(db, q.QuotationID)
	require.NoError(t, err)
	assert.False(t, src.IsLocked)
	require.Len(t, src.Items, 2)
}

func TestConvertPIToSOAUsesSettingsTerms(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	settings, err := GetOrCreateSettings(db)
	require.NoError(t, err)
	settings.TermsAndConditions = "Goods once sold will not be taken back."
	require.NoError(t, db.Save(settings).Error)

	pi, err := CreatePI(db, testActor, PIInput{
		PartyID: "PTY0001",
		Remarks: "confirmed on call",
		Items:   []LineInput{{ItemID: "ITM0001", Qty: 4, Rate: 95}},
	})
	require.NoError(t, err)

	s, err := ConvertToSOA(db, testActor, models.DocTypePI, pi.PIID)
	require.NoError(t, err)
	require.NotNil(t, s.ReferenceDocumentID)
	assert.Equal(t, pi.PIID, *s.ReferenceDocumentID)
	assert.Equal(t, "confirmed on call", s.Remarks)
	assert.Equal(t, "Goods once sold will not be taken back.", s.TermsAndConditions)
	assert.Equal(t, "In Process", s.SOAStatus)

	logs, err := DocumentHistory(db, models.DocTypeSOA, s.SOAID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionCreatedFromPI, logs[0].Action)
}

func TestConvertSOAToQuotation(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	s, err := CreateSOA(db, testActor, SOAInput{
		PartyID: "PTY0002",
		Remarks: "repeat order",
		Items:   []LineInput{{ItemID: "ITM0002", Qty: 3, Rate: 4200}},
	})
	require.NoError(t, err)

	q, err := ConvertToQuotation(db, testActor, models.DocTypeSOA, s.SOAID)
	require.NoError(t, err)
	assert.Equal(t, s.PartyID, q.PartyID)
	assert.Equal(t, "repeat order", q.Remarks)
	assert.Equal(t, 30, q.ValidityDays)
	assert.Nil(t, q.QuotationStatus)
	require.Len(t, q.Items, 1)
	assert.Equal(t, s.Items[0].TotalAmount, q.Items[0].TotalAmount)

	logs, err := DocumentHistory(db, models.DocTypeQuotation, q.QuotationID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionCreatedFromSOA, logs[0].Action)
}

func TestConvertRejectsSameType(t *testing.T) {
	db := testDB(t)
	seedMasters(t, db)

	q, err := CreateQuotation(db, testActor, quotationFixture())
	require.NoError(t, err)
	_, err = ConvertToQuotation(db, testActor, models.DocTypeQuotation, q.QuotationID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestConvertLead(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.Create(&models.Lead{
		LeadID:    "LEAD0001",
		PartyName: "New Prospect",
		Status:    "Open",
	}).Error)

	lead, err := ConvertLead(db, testActor, "LEAD0001")
	require.NoError(t, err)
	assert.Equal(t, "Converted", lead.Status)

	logs, err := DocumentHistory(db, models.DocTypeLead, "LEAD0001")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionConverted, logs[0].Action)
	assert.Equal(t, "USR0001", logs[0].UpdatedBy)

	_, err = ConvertLead(db, testActor, "LEAD0001")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = ConvertLead(db, testActor, "LEAD9999")
	assert.ErrorIs(t, err, ErrNotFound)
}
