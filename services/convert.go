package services

import (
	"errors"
	"time"

	"salescrm-backend/models"

	"gorm.io/gorm"
)

// Conversions create a new document from an existing one. The source is
// never modified; the target re-reads the party name (the reference is
// carried, not the snapshot) but copies line item rows verbatim so prices
// quoted stay the prices invoiced.

func conversionAction(src models.DocType) string {
	switch src {
	case models.DocTypeQuotation:
		return ActionCreatedFromQTN
	case models.DocTypePI:
		return ActionCreatedFromPI
	default:
		return ActionCreatedFromSOA
	}
}

func convertTarget(tx *gorm.DB, actor Actor, src models.CommercialDocument, dst models.CommercialDocument) error {
	rows := append([]models.LineItem(nil), src.LineItems()...)
	if err := replaceItems(tx, dst.Type(), dst.DocumentID(), rows); err != nil {
		return err
	}
	dst.SetLineItems(rows)
	if err := saveVersion(tx, dst); err != nil {
		return err
	}
	return RecordLog(tx, dst.Type(), dst.DocumentID(), conversionAction(src.Type()), actor.UserID)
}

// ConvertToPI builds a proforma invoice from a quotation or SOA.
func ConvertToPI(tx *gorm.DB, actor Actor, srcType models.DocType, srcID string) (*models.ProformaInvoice, error) {
	var src models.CommercialDocument
	validity := 30
	paymentTerms, deliveryTerms, remarks := "", "", ""
	switch srcType {
	case models.DocTypeQuotation:
		q, err := GetQuotation(tx, srcID)
		if err != nil {
			return nil, err
		}
		src = q
		validity = q.ValidityDays
		paymentTerms = q.PaymentTerms
		deliveryTerms = q.DeliveryTerms
		remarks = q.Remarks
	case models.DocTypeSOA:
		s, err := GetSOA(tx, srcID)
		if err != nil {
			return nil, err
		}
		src = s
		remarks = s.Remarks
	default:
		return nil, conflict("cannot convert %s to a proforma invoice", srcType)
	}

	party, err := ResolveParty(tx, src.PartyRef())
	if err != nil {
		return nil, err
	}
	id, no, err := IssueNumber(tx, models.DocTypePI)
	if err != nil {
		return nil, err
	}
	ref := srcID
	pi := models.ProformaInvoice{
		PIID:                id,
		PINo:                no,
		PartyID:             party.PartyID,
		PartyNameSnapshot:   party.PartyName,
		ReferenceDocumentID: &ref,
		Date:                time.Now().UTC(),
		ValidityDays:        validity,
		PaymentTerms:        paymentTerms,
		DeliveryTerms:       deliveryTerms,
		Remarks:             remarks,
		PIStatus:            "PI Submitted",
		CreatedByUserID:     actor.UserID,
	}
	if err := tx.Create(&pi).Error; err != nil {
		return nil, err
	}
	if err := convertTarget(tx, actor, src, &pi); err != nil {
		return nil, err
	}
	return &pi, nil
}

// ConvertToSOA builds an SOA from a quotation or proforma invoice. The
// terms block starts from the settings default since neither source
// carries one.
func ConvertToSOA(tx *gorm.DB, actor Actor, srcType models.DocType, srcID string) (*models.SOA, error) {
	var src models.CommercialDocument
	remarks := ""
	switch srcType {
	case models.DocTypeQuotation:
		q, err := GetQuotation(tx, srcID)
		if err != nil {
			return nil, err
		}
		src = q
		remarks = q.Remarks
	case models.DocTypePI:
		pi, err := GetPI(tx, srcID)
		if err != nil {
			return nil, err
		}
		src = pi
		remarks = pi.Remarks
	default:
		return nil, conflict("cannot convert %s to an SOA", srcType)
	}

	party, err := ResolveParty(tx, src.PartyRef())
	if err != nil {
		return nil, err
	}
	settings, err := GetOrCreateSettings(tx)
	if err != nil {
		return nil, err
	}
	id, no, err := IssueNumber(tx, models.DocTypeSOA)
	if err != nil {
		return nil, err
	}
	ref := srcID
	s := models.SOA{
		SOAID:               id,
		SOANo:               no,
		PartyID:             party.PartyID,
		PartyNameSnapshot:   party.PartyName,
		ReferenceDocumentID: &ref,
		TermsAndConditions:  settings.TermsAndConditions,
		Remarks:             remarks,
		Date:                time.Now().UTC(),
		SOAStatus:           "In Process",
		CreatedByUserID:     actor.UserID,
	}
	if err := tx.Create(&s).Error; err != nil {
		return nil, err
	}
	if err := convertTarget(tx, actor, src, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ConvertToQuotation builds a quotation from a proforma invoice or SOA.
func ConvertToQuotation(tx *gorm.DB, actor Actor, srcType models.DocType, srcID string) (*models.Quotation, error) {
	var src models.CommercialDocument
	validity := 30
	paymentTerms, deliveryTerms, remarks := "", "", ""
	switch srcType {
	case models.DocTypePI:
		pi, err := GetPI(tx, srcID)
		if err != nil {
			return nil, err
		}
		src = pi
		validity = pi.ValidityDays
		paymentTerms = pi.PaymentTerms
		deliveryTerms = pi.DeliveryTerms
		remarks = pi.Remarks
	case models.DocTypeSOA:
		s, err := GetSOA(tx, srcID)
		if err != nil {
			return nil, err
		}
		src = s
		remarks = s.Remarks
	default:
		return nil, conflict("cannot convert %s to a quotation", srcType)
	}

	party, err := ResolveParty(tx, src.PartyRef())
	if err != nil {
		return nil, err
	}
	id, no, err := IssueNumber(tx, models.DocTypeQuotation)
	if err != nil {
		return nil, err
	}
	q := models.Quotation{
		QuotationID:       id,
		QuotationNo:       no,
		PartyID:           party.PartyID,
		PartyNameSnapshot: party.PartyName,
		Date:              time.Now().UTC(),
		ValidityDays:      validity,
		PaymentTerms:      paymentTerms,
		DeliveryTerms:     deliveryTerms,
		Remarks:           remarks,
		CreatedByUserID:   actor.UserID,
	}
	if err := tx.Create(&q).Error; err != nil {
		return nil, err
	}
	if err := convertTarget(tx, actor, src, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// ConvertLead marks an open lead as converted. Converting twice is a
// conflict; the caller creates the follow-up quotation separately with
// reference_lead_id set.
func ConvertLead(tx *gorm.DB, actor Actor, leadID string) (*models.Lead, error) {
	var lead models.Lead
	if err := tx.First(&lead, "lead_id = ?", leadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("lead %s", leadID)
		}
		return nil, err
	}
	if lead.Status == "Converted" {
		return nil, conflict("lead %s is already converted", leadID)
	}
	lead.Status = "Converted"
	if err := tx.Model(&models.Lead{}).
		Where("lead_id = ?", leadID).
		Update("status", "Converted").Error; err != nil {
		return nil, err
	}
	if err := RecordLog(tx, models.DocTypeLead, leadID, ActionConverted, actor.UserID); err != nil {
		return nil, err
	}
	return &lead, nil
}
