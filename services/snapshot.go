package services

import (
	"errors"

	"salescrm-backend/models"

	"gorm.io/gorm"
)

// LineInput is the client-supplied part of a document row. Everything else
// on a LineItem is snapshotted from the item master or computed here.
type LineInput struct {
	ItemID          string  `json:"item_id" validate:"required"`
	Qty             float64 `json:"qty" validate:"gte=0"`
	Rate            float64 `json:"rate" validate:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" validate:"gte=0,lte=100"`
}

// ResolveParty loads an active-or-inactive party by id.
func ResolveParty(tx *gorm.DB, partyID string) (*models.Party, error) {
	var party models.Party
	if err := tx.First(&party, "party_id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("party %s", partyID)
		}
		return nil, err
	}
	return &party, nil
}

// BuildLineItems turns client line inputs into stored rows: item master
// fields are copied in, tax amounts computed against the party's state.
// The items are fetched in one batch; a missing item id fails the whole
// save so a document can never reference a phantom item.
func BuildLineItems(tx *gorm.DB, partyState string, inputs []LineInput) ([]models.LineItem, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		ids = append(ids, in.ItemID)
	}
	var items []models.Item
	if err := tx.Where("item_id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Item, len(items))
	for _, it := range items {
		byID[it.ItemID] = it
	}

	out := make([]models.LineItem, 0, len(inputs))
	for pos, in := range inputs {
		item, ok := byID[in.ItemID]
		if !ok {
			return nil, notFound("item %s", in.ItemID)
		}
		tax := ComputeLineTax(in.Qty, in.Rate, in.DiscountPercent, item.GSTPercent, partyState)
		out = append(out, models.LineItem{
			Pos:             pos,
			ItemID:          item.ItemID,
			ItemName:        item.ItemName,
			ItemCode:        item.ItemCode,
			UOM:             item.UOM,
			HSN:             item.HSN,
			GSTPercent:      item.GSTPercent,
			Qty:             in.Qty,
			Rate:            in.Rate,
			DiscountPercent: in.DiscountPercent,
			TaxableAmount:   tax.TaxableAmount,
			TaxType:         tax.TaxType,
			TaxAmount:       tax.TaxAmount,
			TotalAmount:     tax.TotalAmount,
		})
	}
	return out, nil
}

// loadItems fetches the stored rows of one document in saved order.
func loadItems(tx *gorm.DB, docType models.DocType, docID string) ([]models.LineItem, error) {
	var rows []models.LineItem
	err := tx.Where("doc_type = ? AND doc_id = ?", string(docType), docID).
		Order("pos ASC").
		Find(&rows).Error
	return rows, err
}

// replaceItems swaps a document's stored rows for the given set.
func replaceItems(tx *gorm.DB, docType models.DocType, docID string, rows []models.LineItem) error {
	if err := tx.Where("doc_type = ? AND doc_id = ?", string(docType), docID).
		Delete(&models.LineItem{}).Error; err != nil {
		return err
	}
	for i := range rows {
		rows[i].ID = 0
		rows[i].DocType = string(docType)
		rows[i].DocID = docID
		rows[i].Pos = i
	}
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}
