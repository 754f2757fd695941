package services

import (
	"sort"

	"salescrm-backend/models"
	"salescrm-backend/utils"

	"gorm.io/gorm"
)

// DocumentViewModel is everything a renderer needs to print one document.
// It is assembled from the stored snapshots; the item master is consulted
// only to fill line fields the snapshot left empty.
type DocumentViewModel struct {
	DocType     models.DocType
	Title       string
	DocumentID  string
	DisplayNo   string
	Date        string
	CreatorName string

	PartyName     string
	PartyAddress  string
	PartyCity     string
	PartyState    string
	PartyPincode  string
	PartyGST      string
	ContactPerson string
	PartyMobile   string

	PartyConfirmationID string
	ValidityDays        int
	PaymentTerms        string
	DeliveryTerms       string
	TermsAndConditions  string
	Remarks             string
	Status              string

	HasDiscount bool
	Lines       []ViewModelLine

	Subtotal   float64
	TaxGroups  []TaxGroup
	TaxTotal   float64
	GrandTotal float64
}

type ViewModelLine struct {
	Pos             int
	ItemName        string
	ItemCode        string
	Description     string
	UOM             string
	HSN             string
	GSTPercent      float64
	Qty             float64
	Rate            float64
	DiscountPercent float64
	TaxableAmount   float64
	TaxType         string
	TaxAmount       float64
	TotalAmount     float64
}

// TaxGroup is one row of the printed tax table, grouped by HSN and rate.
// Intra-state amounts are split half CGST, half SGST at this point; the
// stored line rows only carry the combined amount.
type TaxGroup struct {
	HSN        string
	GSTPercent float64
	Taxable    float64
	TaxType    string
	CGST       float64
	SGST       float64
	IGST       float64
}

var docTitles = map[models.DocType]string{
	models.DocTypeQuotation: "Quotation",
	models.DocTypePI:        "Proforma Invoice",
	models.DocTypeSOA:       "Sales Order Acknowledgement",
}

// BuildViewModel resolves a document into its printable form. The party
// must still exist; its current address block is used, but the name shown
// is the snapshot taken when the document was last saved.
func BuildViewModel(tx *gorm.DB, doc models.CommercialDocument) (*DocumentViewModel, error) {
	party, err := ResolveParty(tx, doc.PartyRef())
	if err != nil {
		return nil, err
	}

	vm := &DocumentViewModel{
		DocType:       doc.Type(),
		Title:         docTitles[doc.Type()],
		DocumentID:    doc.DocumentID(),
		DisplayNo:     doc.DocumentNo(),
		Date:          doc.DocumentDate().Format("02-01-2006"),
		PartyName:     party.PartyName,
		PartyAddress:  party.Address,
		PartyCity:     party.City,
		PartyState:    party.State,
		PartyPincode:  party.Pincode,
		PartyGST:      party.GSTNumber,
		ContactPerson: party.ContactPerson,
		PartyMobile:   party.Mobile,
	}
	if snap := doc.PartySnapshot(); snap != "" {
		vm.PartyName = snap
	}

	var creator models.User
	creatorID := ""
	switch d := doc.(type) {
	case *models.Quotation:
		creatorID = d.CreatedByUserID
		vm.ValidityDays = d.ValidityDays
		vm.PaymentTerms = d.PaymentTerms
		vm.DeliveryTerms = d.DeliveryTerms
		vm.Remarks = d.Remarks
		if d.QuotationStatus != nil {
			vm.Status = *d.QuotationStatus
		}
	case *models.ProformaInvoice:
		creatorID = d.CreatedByUserID
		vm.ValidityDays = d.ValidityDays
		vm.PaymentTerms = d.PaymentTerms
		vm.DeliveryTerms = d.DeliveryTerms
		vm.Remarks = d.Remarks
		vm.Status = d.PIStatus
	case *models.SOA:
		creatorID = d.CreatedByUserID
		vm.PartyConfirmationID = d.PartyConfirmationID
		vm.TermsAndConditions = d.TermsAndConditions
		vm.Remarks = d.Remarks
		vm.Status = d.SOAStatus
	}
	if creatorID != "" {
		if err := tx.First(&creator, "user_id = ?", creatorID).Error; err == nil {
			vm.CreatorName = creator.Name
		}
	}
	if doc.Type() == models.DocTypeQuotation {
		vm.DisplayNo = QuotationDisplayNo(doc.DocumentNo(), vm.CreatorName)
	}

	if err := fillLines(tx, vm, doc.LineItems()); err != nil {
		return nil, err
	}
	buildTaxGroups(vm)
	return vm, nil
}

// fillLines copies stored line snapshots into the view model, falling back
// to the current item master only for fields the snapshot left empty.
func fillLines(tx *gorm.DB, vm *DocumentViewModel, rows []models.LineItem) error {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ItemID)
	}
	masters := map[string]models.Item{}
	if len(ids) > 0 {
		var items []models.Item
		if err := tx.Where("item_id IN ?", ids).Find(&items).Error; err != nil {
			return err
		}
		for _, it := range items {
			masters[it.ItemID] = it
		}
	}

	for i, r := range rows {
		line := ViewModelLine{
			Pos:             i + 1,
			ItemName:        r.ItemName,
			ItemCode:        r.ItemCode,
			UOM:             r.UOM,
			HSN:             r.HSN,
			GSTPercent:      r.GSTPercent,
			Qty:             r.Qty,
			Rate:            r.Rate,
			DiscountPercent: r.DiscountPercent,
			TaxableAmount:   r.TaxableAmount,
			TaxType:         r.TaxType,
			TaxAmount:       r.TaxAmount,
			TotalAmount:     r.TotalAmount,
		}
		if m, ok := masters[r.ItemID]; ok {
			if line.ItemName == "" {
				line.ItemName = m.ItemName
			}
			if line.ItemCode == "" {
				line.ItemCode = m.ItemCode
			}
			if line.UOM == "" {
				line.UOM = m.UOM
			}
			if line.HSN == "" {
				line.HSN = m.HSN
			}
			line.Description = m.Description
		}
		if line.DiscountPercent > 0 {
			vm.HasDiscount = true
		}
		vm.Subtotal = utils.Round2(vm.Subtotal + line.TaxableAmount)
		vm.TaxTotal = utils.Round2(vm.TaxTotal + line.TaxAmount)
		vm.GrandTotal = utils.Round2(vm.GrandTotal + line.TotalAmount)
		vm.Lines = append(vm.Lines, line)
	}
	return nil
}

func buildTaxGroups(vm *DocumentViewModel) {
	type key struct {
		hsn  string
		rate float64
		typ  string
	}
	agg := map[key]*TaxGroup{}
	order := []key{}
	for _, l := range vm.Lines {
		typ := l.TaxType
		if typ == "" {
			typ = models.TaxTypeInterState
		}
		k := key{hsn: l.HSN, rate: l.GSTPercent, typ: typ}
		g, ok := agg[k]
		if !ok {
			g = &TaxGroup{HSN: l.HSN, GSTPercent: l.GSTPercent, TaxType: typ}
			agg[k] = g
			order = append(order, k)
		}
		g.Taxable = utils.Round2(g.Taxable + l.TaxableAmount)
		if typ == models.TaxTypeIntraState {
			half := utils.Round2(l.TaxAmount / 2)
			g.CGST = utils.Round2(g.CGST + half)
			g.SGST = utils.Round2(g.SGST + (l.TaxAmount - half))
		} else {
			g.IGST = utils.Round2(g.IGST + l.TaxAmount)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		if order[i].hsn != order[j].hsn {
			return order[i].hsn < order[j].hsn
		}
		return order[i].rate < order[j].rate
	})
	for _, k := range order {
		vm.TaxGroups = append(vm.TaxGroups, *agg[k])
	}
}
