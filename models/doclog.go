package models

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentLog is one append-only audit record. Entries are never updated
// or deleted; VersionNo is the count of prior entries for the same
// document, plus one.
type DocumentLog struct {
	LogID        string    `json:"log_id" gorm:"primaryKey"`
	DocumentType string    `json:"document_type" gorm:"size:30;index"`
	DocumentID   string    `json:"document_id" gorm:"index"`
	Action       string    `json:"action" gorm:"size:40"`
	UpdatedBy    string    `json:"updated_by" gorm:"index"`
	Timestamp    time.Time `json:"timestamp" gorm:"index"`
	VersionNo    int       `json:"version_no"`
}

// DocumentVersion holds a full JSON snapshot of a commercial document at
// the time of a lifecycle action, so lineage can be replayed even after
// later edits.
type DocumentVersion struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	DocumentType string         `json:"document_type" gorm:"size:30;index:idx_document_versions_doc_version,unique,priority:1"`
	DocumentID   string         `json:"document_id" gorm:"index:idx_document_versions_doc_version,unique,priority:2"`
	VersionNo    int            `json:"version_no" gorm:"not null;index:idx_document_versions_doc_version,unique,priority:3"`
	Snapshot     datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
	CreatedAt    time.Time      `json:"created_at"`
}
