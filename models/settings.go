package models

// Settings is a singleton (settings_id "default"), lazily created with
// these defaults on first read.
type Settings struct {
	SettingsID         string `json:"settings_id" gorm:"primaryKey"`
	QuotationPrefix    string `json:"quotation_prefix" gorm:"default:QTN"`
	PIPrefix           string `json:"pi_prefix" gorm:"column:pi_prefix;default:PI"`
	SOAPrefix          string `json:"soa_prefix" gorm:"column:soa_prefix;default:SOA"`
	PaymentTerms       string `json:"payment_terms"`
	DeliveryTerms      string `json:"delivery_terms"`
	TermsAndConditions string `json:"terms_and_conditions"`
}
