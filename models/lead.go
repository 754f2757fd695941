package models

import "time"

// Lead captures an inbound inquiry. Party fields are free text on purpose;
// a lead is not linked to the party master.
type Lead struct {
	LeadID             string    `json:"lead_id" gorm:"primaryKey"`
	PartyName          string    `json:"party_name" gorm:"not null"`
	PartyAddress       string    `json:"party_address"`
	PartyGST           string    `json:"party_gst" gorm:"column:party_gst"`
	PartyCity          string    `json:"party_city"`
	ContactName        string    `json:"contact_name"`
	ContactMobile      string    `json:"contact_mobile"`
	RequirementSummary string    `json:"requirement_summary"`
	ReferredBy         string    `json:"referred_by"`
	Notes              string    `json:"notes"`
	CreatedByUserID    string    `json:"created_by_user_id" gorm:"index"`
	LeadDate           time.Time `json:"lead_date" gorm:"index"`
	Status             string    `json:"status" gorm:"default:Open"` // Open, Converted, Lost
}
