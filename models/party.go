package models

// Party is a customer in the party master. State drives the tax type of
// every document billed to this party. Deleting a party only flips its
// status to Inactive.
type Party struct {
	PartyID       string `json:"party_id" gorm:"primaryKey"`
	PartyName     string `json:"party_name" gorm:"not null"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state" gorm:"not null"`
	Pincode       string `json:"pincode"`
	GSTNumber     string `json:"GST_number" gorm:"column:gst_number;index"`
	ContactPerson string `json:"contact_person"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
	Status        string `json:"status" gorm:"default:Active"` // Active | Inactive
}
