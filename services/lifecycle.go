package services

import (
	"encoding/json"
	"errors"
	"time"

	"salescrm-backend/models"
	"salescrm-backend/utils"

	"gorm.io/gorm"
)

// QuotationInput is the full client payload for creating or replacing a
// quotation. Updates are full replacements; id, number and creator are
// preserved server-side.
type QuotationInput struct {
	PartyID         string      `json:"party_id" validate:"required"`
	ReferenceLeadID *string     `json:"reference_lead_id"`
	Date            string      `json:"date"`
	ValidityDays    int         `json:"validity_days" validate:"gte=0"`
	PaymentTerms    string      `json:"payment_terms"`
	DeliveryTerms   string      `json:"delivery_terms"`
	Remarks         string      `json:"remarks"`
	QuotationStatus *string     `json:"quotation_status" validate:"omitempty,oneof=Successful Lost 'In Process'"`
	Items           []LineInput `json:"items" validate:"required,min=1,dive"`
}

type PIInput struct {
	PartyID       string      `json:"party_id" validate:"required"`
	Date          string      `json:"date"`
	ValidityDays  int         `json:"validity_days" validate:"gte=0"`
	PaymentTerms  string      `json:"payment_terms"`
	DeliveryTerms string      `json:"delivery_terms"`
	Remarks       string      `json:"remarks"`
	PIStatus      string      `json:"pi_status" validate:"omitempty,oneof='PI Submitted' 'Payment Recd'"`
	Items         []LineInput `json:"items" validate:"required,min=1,dive"`
}

type SOAInput struct {
	PartyID             string      `json:"party_id" validate:"required"`
	PartyConfirmationID string      `json:"party_confirmation_ID"`
	Date                string      `json:"date"`
	TermsAndConditions  string      `json:"terms_and_conditions"`
	Remarks             string      `json:"remarks"`
	SOAStatus           string      `json:"soa_status" validate:"omitempty,oneof='In Process' 'Material Given'"`
	Items               []LineInput `json:"items" validate:"required,min=1,dive"`
}

func parseDocDate(raw string) time.Time {
	if ts, ok := utils.ParseDate(raw); ok {
		return ts
	}
	return time.Now().UTC()
}

// saveVersion stores a full JSON snapshot of the document (items included)
// under the next version number for that document.
func saveVersion(tx *gorm.DB, doc models.CommercialDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var prior int64
	if err := tx.Model(&models.DocumentVersion{}).
		Where("document_type = ? AND document_id = ?", string(doc.Type()), doc.DocumentID()).
		Count(&prior).Error; err != nil {
		return err
	}
	return tx.Create(&models.DocumentVersion{
		DocumentType: string(doc.Type()),
		DocumentID:   doc.DocumentID(),
		VersionNo:    int(prior) + 1,
		Snapshot:     raw,
		CreatedAt:    time.Now().UTC(),
	}).Error
}

func afterMutation(tx *gorm.DB, doc models.CommercialDocument, action, actorID string) error {
	if err := saveVersion(tx, doc); err != nil {
		return err
	}
	return RecordLog(tx, doc.Type(), doc.DocumentID(), action, actorID)
}

// --- Quotation ---

func CreateQuotation(tx *gorm.DB, actor Actor, in QuotationInput) (*models.Quotation, error) {
	party, err := ResolveParty(tx, in.PartyID)
	if err != nil {
		return nil, err
	}
	rows, err := BuildLineItems(tx, party.State, in.Items)
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
		ReferenceLeadID:   in.ReferenceLeadID,
		Date:              parseDocDate(in.Date),
		ValidityDays:      in.ValidityDays,
		PaymentTerms:      in.PaymentTerms,
		DeliveryTerms:     in.DeliveryTerms,
		Remarks:           in.Remarks,
		QuotationStatus:   in.QuotationStatus,
		CreatedByUserID:   actor.UserID,
	}
	if q.ValidityDays == 0 {
		q.ValidityDays = 30
	}
	if err := tx.Create(&q).Error; err != nil {
		return nil, err
	}
	if err := replaceItems(tx, models.DocTypeQuotation, q.QuotationID, rows); err != nil {
		return nil, err
	}
	q.Items = rows
	if err := afterMutation(tx, &q, ActionCreated, actor.UserID); err != nil {
		return nil, err
	}
	return &q, nil
}

func GetQuotation(tx *gorm.DB, id string) (*models.Quotation, error) {
	var q models.Quotation
	if err := tx.First(&q, "quotation_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("quotation %s", id)
		}
		return nil, err
	}
	rows, err := loadItems(tx, models.DocTypeQuotation, id)
	if err != nil {
		return nil, err
	}
	q.Items = rows
	return &q, nil
}

func UpdateQuotation(tx *gorm.DB, actor Actor, id string, in QuotationInput) (*models.Quotation, error) {
	q, err := GetQuotation(tx, id)
	if err != nil {
		return nil, err
	}
	if q.IsLocked {
		return nil, conflict("quotation %s is locked", id)
	}
	party, err := ResolveParty(tx, in.PartyID)
	if err != nil {
		return nil, err
	}
	rows, err := BuildLineItems(tx, party.State, in.Items)
	if err != nil {
		return nil, err
	}
	q.PartyID = party.PartyID
	q.PartyNameSnapshot = party.PartyName
	q.ReferenceLeadID = in.ReferenceLeadID
	q.Date = parseDocDate(in.Date)
	q.ValidityDays = in.ValidityDays
	q.PaymentTerms = in.PaymentTerms
	q.DeliveryTerms = in.DeliveryTerms
	q.Remarks = in.Remarks
	q.QuotationStatus = in.QuotationStatus
	if q.ValidityDays == 0 {
		q.ValidityDays = 30
	}
	if err := tx.Save(q).Error; err != nil {
		return nil, err
	}
	if err := replaceItems(tx, models.DocTypeQuotation, q.QuotationID, rows); err != nil {
		return nil, err
	}
	q.Items = rows
	if err := afterMutation(tx, q, ActionUpdated, actor.UserID); err != nil {
		return nil, err
	}
	return q, nil
}

func DeleteQuotation(tx *gorm.DB, actor Actor, id string) error {
	q, err := GetQuotation(tx, id)
	if err != nil {
		return err
	}
	if q.IsLocked {
		return conflict("quotation %s is locked", id)
	}
	if err := tx.Where("doc_type = ? AND doc_id = ?", string(models.DocTypeQuotation), id).
		Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Quotation{}, "quotation_id = ?", id).Error; err != nil {
		return err
	}
	return RecordLog(tx, models.DocTypeQuotation, id, ActionDeleted, actor.UserID)
}

// DuplicateQuotation copies a quotation under a fresh number. The copy gets
// today's date, the caller as creator, no status and no lock; line item
// snapshots carry over unchanged.
func DuplicateQuotation(tx *gorm.DB, actor Actor, id string) (*models.Quotation, error) {
	src, err := GetQuotation(tx, id)
	if err != nil {
		return nil, err
	}
	newID, newNo, err := IssueNumber(tx, models.DocTypeQuotation)
	if err != nil {
		return nil, err
	}
	dup := *src
	dup.QuotationID = newID
	dup.QuotationNo = newNo
	dup.Date = time.Now().UTC()
	dup.QuotationStatus = nil
	dup.IsLocked = false
	dup.CreatedByUserID = actor.UserID
	dup.Items = nil
	if err := tx.Create(&dup).Error; err != nil {
		return nil, err
	}
	rows := append([]models.LineItem(nil), src.Items...)
	if err := replaceItems(tx, models.DocTypeQuotation, newID, rows); err != nil {
		return nil, err
	}
	dup.Items = rows
	if err := afterMutation(tx, &dup, ActionDuplicated, actor.UserID); err != nil {
		return nil, err
	}
	return &dup, nil
}

// LockQuotation marks a quotation read-only. Locking an already locked
// quotation is a no-op.
func LockQuotation(tx *gorm.DB, actor Actor, id string) (*models.Quotation, error) {
	q, err := GetQuotation(tx, id)
	if err != nil {
		return nil, err
	}
	if q.IsLocked {
		return q, nil
	}
	q.IsLocked = true
	if err := tx.Model(&models.Quotation{}).
		Where("quotation_id = ?", id).
		Update("is_locked", true).Error; err != nil {
		return nil, err
	}
	if err := RecordLog(tx, models.DocTypeQuotation, id, ActionLocked, actor.UserID); err != nil {
		return nil, err
	}
	return q, nil
}

// --- Proforma invoice ---

func CreatePI(tx *gorm.DB, actor Actor, in PIInput) (*models.ProformaInvoice, error) {
	party, err := ResolveParty(tx, in.PartyID)
	if err != nil {
		return nil, err
	}
	rows, err := BuildLineItems(tx, party.State, in.Items)
	if err != nil {
		return nil, err
	}
	id, no, err := IssueNumber(tx, models.DocTypePI)
	if err != nil {
		return nil, err
	}
	pi := models.ProformaInvoice{
		PIID:              id,
		PINo:              no,
		PartyID:           party.PartyID,
		PartyNameSnapshot: party.PartyName,
		Date:              parseDocDate(in.Date),
		ValidityDays:      in.ValidityDays,
		PaymentTerms:      in.PaymentTerms,
		DeliveryTerms:     in.DeliveryTerms,
		Remarks:           in.Remarks,
		PIStatus:          in.PIStatus,
		CreatedByUserID:   actor.UserID,
	}
	if pi.ValidityDays == 0 {
		pi.ValidityDays = 30
	}
	if pi.PIStatus == "" {
		pi.PIStatus = "PI Submitted"
	}
	if err := tx.Create(&pi).Error; err != nil {
		return nil, err
	}
	if err := replaceItems(tx, models.DocTypePI, pi.PIID, rows); err != nil {
		return nil, err
	}
	pi.Items = rows
	if err := afterMutation(tx, &pi, ActionCreated, actor.UserID); err != nil {
		return nil, err
	}
	return &pi, nil
}

func GetPI(tx *gorm.DB, id string) (*models.ProformaInvoice, error) {
	var pi models.ProformaInvoice
	if err := tx.First(&pi, "pi_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("proforma invoice %s", id)
		}
		return nil, err
	}
	rows, err := loadItems(tx, models.DocTypePI, id)
	if err != nil {
		return nil, err
	}
	pi.Items = rows
	return &pi, nil
}

func UpdatePI(tx *gorm.DB, actor Actor, id string, in PIInput) (*models.ProformaInvoice, error) {
	pi, err := GetPI(tx, id)
	if err != nil {
		return nil, err
	}
	if pi.IsLocked {
		return nil, conflict("proforma invoice %s is locked", id)
	}
	party, err := ResolveParty(tx, in.PartyID)
	if err != nil {
		return nil, err
	}
	rows, err := BuildLineItems(tx, party.State, in.Items)
	if err != nil {
		return nil, err
	}
	pi.PartyID = party.PartyID
	pi.PartyNameSnapshot = party.PartyName
	pi.Date = parseDocDate(in.Date)
	pi.ValidityDays = in.ValidityDays
	pi.PaymentTerms = in.PaymentTerms
	pi.DeliveryTerms = in.DeliveryTerms
	pi.Remarks = in.Remarks
	if in.PIStatus != "" {
		pi.PIStatus = in.PIStatus
	}
	if pi.ValidityDays == 0 {
		pi.ValidityDays = 30
	}
	if err := tx.Save(pi).Error; err != nil {
		return nil, err
	}
	if err := replaceItems(tx, models.DocTypePI, pi.PIID, rows); err != nil {
		return nil, err
	}
	pi.Items = rows
	if err := afterMutation(tx, pi, ActionUpdated, actor.UserID); err != nil {
		return nil, err
	}
	return pi, nil
}

func DeletePI(tx *gorm.DB, actor Actor, id string) error {
	pi, err := GetPI(tx, id)
	if err != nil {
		return err
	}
	if pi.IsLocked {
		return conflict("proforma invoice %s is locked", id)
	}
	if err := tx.Where("doc_type = ? AND doc_id = ?", string(models.DocTypePI), id).
		Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.ProformaInvoice{}, "pi_id = ?", id).Error; err != nil {
		return err
	}
	return RecordLog(tx, models.DocTypePI, id, ActionDeleted, actor.UserID)
}

func DuplicatePI(tx *gorm.DB, actor Actor, id string) (*models.ProformaInvoice, error) {
	src, err := GetPI(tx, id)
	if err != nil {
		return nil, err
	}
	newID, newNo, err := IssueNumber(tx, models.DocTypePI)
	if err != nil {
		return nil, err
	}
	dup := *src
	dup.PIID = newID
	dup.PINo = newNo
	dup.Date = time.Now().UTC()
	dup.PIStatus = "PI Submitted"
	dup.IsLocked = false
	dup.CreatedByUserID = actor.UserID
	dup.ReferenceDocumentID = nil
	dup.Items = nil
	if err := tx.Create(&dup).Error; err != nil {
		return nil, err
	}
	rows := append([]models.LineItem(nil), src.Items...)
	if err := replaceItems(tx, models.DocTypePI, newID, rows); err != nil {
		return nil, err
	}
	dup.Items = rows
	if err := afterMutation(tx, &dup, ActionDuplicated, actor.UserID); err != nil {
		return nil, err
	}
	return &dup, nil
}

func LockPI(tx *gorm.DB, actor Actor, id string) (*models.ProformaInvoice, error) {
	pi, err := GetPI(tx, id)
	if err != nil {
		return nil, err
	}
	if pi.IsLocked {
		return pi, nil
	}
	pi.IsLocked = true
	if err := tx.Model(&models.ProformaInvoice{}).
		Where("pi_id = ?", id).
		Update("is_locked", true).Error; err != nil {
		return nil, err
	}
	if err := RecordLog(tx, models.DocTypePI, id, ActionLocked, actor.UserID); err != nil {
		return nil, err
	}
	return pi, nil
}

// --- SOA ---

func CreateSOA(tx *gorm.DB, actor Actor, in SOAInput) (*models.SOA, error) {
	party, err := ResolveParty(tx, in.PartyID)
	if err != nil {
		return nil, err
	}
	rows, err := BuildLineItems(tx, party.State, in.Items)
	if err != nil {
		return nil, err
	}
	id, no, err := IssueNumber(tx, models.DocTypeSOA)
	if err != nil {
		return nil, err
	}
	s := models.SOA{
		SOAID:               id,
		SOANo:               no,
		PartyConfirmationID: in.PartyConfirmationID,
		PartyID:             party.PartyID,
		PartyNameSnapshot:   party.PartyName,
		TermsAndConditions:  in.TermsAndConditions,
		Remarks:             in.Remarks,
		Date:                parseDocDate(in.Date),
		SOAStatus:           in.SOAStatus,
		CreatedByUserID:     actor.UserID,
	}
	if s.SOAStatus == "" {
		s.SOAStatus = "In Process"
	}
	if err := tx.Create(&s).Error; err != nil {
		return nil, err
	}
	if err := replaceItems(tx, models.DocTypeSOA, s.SOAID, rows); err != nil {
		return nil, err
	}
	s.Items = rows
	if err := afterMutation(tx, &s, ActionCreated, actor.UserID); err != nil {
		return nil, err
	}
	return &s, nil
}

func GetSOA(tx *gorm.DB, id string) (*models.SOA, error) {
	var s models.SOA
	if err := tx.First(&s, "soa_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("SOA %s", id)
		}
		return nil, err
	}
	rows, err := loadItems(tx, models.DocTypeSOA, id)
	if err != nil {
		return nil, err
	}
	s.Items = rows
	return &s, nil
}

func UpdateSOA(tx *gorm.DB, actor Actor, id string, in SOAInput) (*models.SOA, error) {
	s, err := GetSOA(tx, id)
	if err != nil {
		return nil, err
	}
	if s.IsLocked {
		return nil, conflict("SOA %s is locked", id)
	}
	party, err := ResolveParty(tx, in.PartyID)
	if err != nil {
		return nil, err
	}
	rows, err := BuildLineItems(tx, party.State, in.Items)
	if err != nil {
		return nil, err
	}
	s.PartyConfirmationID = in.PartyConfirmationID
	s.PartyID = party.PartyID
	s.PartyNameSnapshot = party.PartyName
	s.TermsAndConditions = in.TermsAndConditions
	s.Remarks = in.Remarks
	s.Date = parseDocDate(in.Date)
	if in.SOAStatus != "" {
		s.SOAStatus = in.SOAStatus
	}
	if err := tx.Save(s).Error; err != nil {
		return nil, err
	}
	if err := replaceItems(tx, models.DocTypeSOA, s.SOAID, rows); err != nil {
		return nil, err
	}
	s.Items = rows
	if err := afterMutation(tx, s, ActionUpdated, actor.UserID); err != nil {
		return nil, err
	}
	return s, nil
}

func DeleteSOA(tx *gorm.DB, actor Actor, id string) error {
	s, err := GetSOA(tx, id)
	if err != nil {
		return err
	}
	if s.IsLocked {
		return conflict("SOA %s is locked", id)
	}
	if err := tx.Where("doc_type = ? AND doc_id = ?", string(models.DocTypeSOA), id).
		Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.SOA{}, "soa_id = ?", id).Error; err != nil {
		return err
	}
	return RecordLog(tx, models.DocTypeSOA, id, ActionDeleted, actor.UserID)
}

func DuplicateSOA(tx *gorm.DB, actor Actor, id string) (*models.SOA, error) {
	src, err := GetSOA(tx, id)
	if err != nil {
		return nil, err
	}
	newID, newNo, err := IssueNumber(tx, models.DocTypeSOA)
	if err != nil {
		return nil, err
	}
	dup := *src
	dup.SOAID = newID
	dup.SOANo = newNo
	dup.Date = time.Now().UTC()
	dup.SOAStatus = "In Process"
	dup.IsLocked = false
	dup.CreatedByUserID = actor.UserID
	dup.ReferenceDocumentID = nil
	dup.Items = nil
	if err := tx.Create(&dup).Error; err != nil {
		return nil, err
	}
	rows := append([]models.LineItem(nil), src.Items...)
	if err := replaceItems(tx, models.DocTypeSOA, newID, rows); err != nil {
		return nil, err
	}
	dup.Items = rows
	if err := afterMutation(tx, &dup, ActionDuplicated, actor.UserID); err != nil {
		return nil, err
	}
	return &dup, nil
}

func LockSOA(tx *gorm.DB, actor Actor, id string) (*models.SOA, error) {
	s, err := GetSOA(tx, id)
	if err != nil {
		return nil, err
	}
	if s.IsLocked {
		return s, nil
	}
	s.IsLocked = true
	if err := tx.Model(&models.SOA{}).
		Where("soa_id = ?", id).
		Update("is_locked", true).Error; err != nil {
		return nil, err
	}
	if err := RecordLog(tx, models.DocTypeSOA, id, ActionLocked, actor.UserID); err != nil {
		return nil, err
	}
	return s, nil
}
