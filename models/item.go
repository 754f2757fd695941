package models

// Item is a catalog entry. Edits here never touch line items already saved
// on a document; those carry their own snapshot of these fields.
type Item struct {
	ItemID      string  `json:"item_id" gorm:"primaryKey"`
	ItemCode    string  `json:"item_code" gorm:"index"`
	ItemName    string  `json:"item_name" gorm:"not null"`
	Description string  `json:"description"`
	UOM         string  `json:"UOM" gorm:"column:uom"`
	Rate        float64 `json:"rate" gorm:"type:numeric(12,2)"`
	HSN         string  `json:"HSN" gorm:"column:hsn"`
	GSTPercent  float64 `json:"GST_percent" gorm:"column:gst_percent"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
}
