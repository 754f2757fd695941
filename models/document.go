package models

import "time"

// DocType tags the three commercial document variants. Leads carry the
// same tag in the audit log even though they are not line-item documents.
type DocType string

const (
	DocTypeQuotation DocType = "QUOTATION"
	DocTypePI        DocType = "PROFORMA_INVOICE"
	DocTypeSOA       DocType = "SOA"
	DocTypeLead      DocType = "LEAD"
)

// Tax types stored on every line item.
const (
	TaxTypeIntraState = "CGST+SGST"
	TaxTypeInterState = "IGST"
)

// LineItem is one row of a commercial document. ItemName through GSTPercent
// are copied from the item master when the row is saved and never refreshed;
// TaxableAmount through TotalAmount are computed once at the same moment and
// stored. All three document types share this table, keyed by (doc_type, doc_id).
type LineItem struct {
	ID      uint   `json:"-" gorm:"primaryKey"`
	DocType string `json:"-" gorm:"size:20;index:idx_document_items_doc,priority:1"`
	DocID   string `json:"-" gorm:"index:idx_document_items_doc,priority:2"`
	Pos     int    `json:"-"`

	ItemID     string  `json:"item_id" gorm:"not null;index"`
	ItemName   string  `json:"item_name"`
	ItemCode   string  `json:"item_code"`
	UOM        string  `json:"UOM" gorm:"column:uom"`
	HSN        string  `json:"HSN" gorm:"column:hsn"`
	GSTPercent float64 `json:"GST_percent" gorm:"column:gst_percent"`

	Qty             float64 `json:"qty"`
	Rate            float64 `json:"rate" gorm:"type:numeric(12,2)"`
	DiscountPercent float64 `json:"discount_percent"`

	TaxableAmount float64 `json:"taxable_amount" gorm:"type:numeric(12,2)"`
	TaxType       string  `json:"tax_type"`
	TaxAmount     float64 `json:"tax_amount" gorm:"type:numeric(12,2)"`
	TotalAmount   float64 `json:"total_amount" gorm:"type:numeric(12,2)"`
}

// CommercialDocument is the shared view over Quotation, ProformaInvoice and
// SOA used by the view-model builder and the version log.
type CommercialDocument interface {
	Type() DocType
	DocumentID() string
	DocumentNo() string
	PartyRef() string
	PartySnapshot() string
	DocumentDate() time.Time
	LineItems() []LineItem
	SetLineItems([]LineItem)
}

type Quotation struct {
	QuotationID       string     `json:"quotation_id" gorm:"primaryKey"`
	QuotationNo       string     `json:"quotation_no" gorm:"unique"`
	PartyID           string     `json:"party_id" gorm:"not null;index"`
	PartyNameSnapshot string     `json:"party_name_snapshot"`
	ReferenceLeadID   *string    `json:"reference_lead_id"`
	Date              time.Time  `json:"date" gorm:"index"`
	ValidityDays      int        `json:"validity_days" gorm:"default:30"`
	PaymentTerms      string     `json:"payment_terms"`
	DeliveryTerms     string     `json:"delivery_terms"`
	Remarks           string     `json:"remarks"`
	QuotationStatus   *string    `json:"quotation_status"` // Successful | Lost | In Process | nil
	IsLocked          bool       `json:"is_locked"`
	CreatedByUserID   string     `json:"created_by_user_id" gorm:"index"`
	Items             []LineItem `json:"items" gorm:"-"`
}

func (q *Quotation) Type() DocType              { return DocTypeQuotation }
func (q *Quotation) DocumentID() string         { return q.QuotationID }
func (q *Quotation) DocumentNo() string         { return q.QuotationNo }
func (q *Quotation) PartyRef() string           { return q.PartyID }
func (q *Quotation) PartySnapshot() string      { return q.PartyNameSnapshot }
func (q *Quotation) DocumentDate() time.Time    { return q.Date }
func (q *Quotation) LineItems() []LineItem      { return q.Items }
func (q *Quotation) SetLineItems(ls []LineItem) { q.Items = ls }

type ProformaInvoice struct {
	PIID                string     `json:"pi_id" gorm:"column:pi_id;primaryKey"`
	PINo                string     `json:"pi_no" gorm:"column:pi_no;unique"`
	PartyID             string     `json:"party_id" gorm:"not null;index"`
	PartyNameSnapshot   string     `json:"party_name_snapshot"`
	ReferenceDocumentID *string    `json:"reference_document_id"`
	Date                time.Time  `json:"date" gorm:"index"`
	ValidityDays        int        `json:"validity_days" gorm:"default:30"`
	PaymentTerms        string     `json:"payment_terms"`
	DeliveryTerms       string     `json:"delivery_terms"`
	Remarks             string     `json:"remarks"`
	PIStatus            string     `json:"pi_status" gorm:"column:pi_status;default:PI Submitted"` // PI Submitted | Payment Recd
	IsLocked            bool       `json:"is_locked"`
	CreatedByUserID     string     `json:"created_by_user_id" gorm:"index"`
	Items               []LineItem `json:"items" gorm:"-"`
}

func (pi *ProformaInvoice) Type() DocType              { return DocTypePI }
func (pi *ProformaInvoice) DocumentID() string         { return pi.PIID }
func (pi *ProformaInvoice) DocumentNo() string         { return pi.PINo }
func (pi *ProformaInvoice) PartyRef() string           { return pi.PartyID }
func (pi *ProformaInvoice) PartySnapshot() string      { return pi.PartyNameSnapshot }
func (pi *ProformaInvoice) DocumentDate() time.Time    { return pi.Date }
func (pi *ProformaInvoice) LineItems() []LineItem      { return pi.Items }
func (pi *ProformaInvoice) SetLineItems(ls []LineItem) { pi.Items = ls }

type SOA struct {
	SOAID               string     `json:"soa_id" gorm:"column:soa_id;primaryKey"`
	SOANo               string     `json:"soa_no" gorm:"column:soa_no;unique"`
	PartyConfirmationID string     `json:"party_confirmation_ID" gorm:"column:party_confirmation_id"`
	PartyID             string     `json:"party_id" gorm:"not null;index"`
	PartyNameSnapshot   string     `json:"party_name_snapshot"`
	ReferenceDocumentID *string    `json:"reference_document_id"`
	TermsAndConditions  string     `json:"terms_and_conditions"`
	Remarks             string     `json:"remarks"`
	Date                time.Time  `json:"date" gorm:"index"`
	SOAStatus           string     `json:"soa_status" gorm:"column:soa_status;default:In Process"` // In Process | Material Given
	IsLocked            bool       `json:"is_locked"`
	CreatedByUserID     string     `json:"created_by_user_id" gorm:"index"`
	Items               []LineItem `json:"items" gorm:"-"`
}

func (s *SOA) TableName() string           { return "soa" }
func (s *SOA) Type() DocType               { return DocTypeSOA }
func (s *SOA) DocumentID() string          { return s.SOAID }
func (s *SOA) DocumentNo() string          { return s.SOANo }
func (s *SOA) PartyRef() string            { return s.PartyID }
func (s *SOA) PartySnapshot() string       { return s.PartyNameSnapshot }
func (s *SOA) DocumentDate() time.Time     { return s.Date }
func (s *SOA) LineItems() []LineItem       { return s.Items }
func (s *SOA) SetLineItems(ls []LineItem)  { s.Items = ls }
