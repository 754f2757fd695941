package models

// DocumentCounter backs sequential id/number issuance. One row per kind,
// incremented atomically inside the creating transaction so two concurrent
// creations can never read the same value.
type DocumentCounter struct {
	Kind  string `json:"kind" gorm:"primaryKey;size:30"`
	Value int64  `json:"value" gorm:"not null;default:0"`
}
