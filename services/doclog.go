package services

import (
	"time"

	"salescrm-backend/models"

	"gorm.io/gorm"
)

// Lifecycle actions recorded in the document log.
const (
	ActionCreated        = "CREATED"
	ActionUpdated        = "UPDATED"
	ActionDeleted        = "DELETED"
	ActionDuplicated     = "DUPLICATED"
	ActionLocked         = "LOCKED"
	ActionConverted      = "CONVERTED"
	ActionCreatedFromQTN = "CREATED_FROM_QUOTATION"
	ActionCreatedFromPI  = "CREATED_FROM_PROFORMA_INVOICE"
	ActionCreatedFromSOA = "CREATED_FROM_SOA"
)

// RecordLog appends one audit entry. Version numbers count per document,
// starting at 1, and entries are never rewritten.
func RecordLog(tx *gorm.DB, docType models.DocType, docID, action, actorID string) error {
	logID, err := NextID(tx, "log", "LOG", 6)
	if err != nil {
		return err
	}
	var prior int64
	if err := tx.Model(&models.DocumentLog{}).
		Where("document_type = ? AND document_id = ?", string(docType), docID).
		Count(&prior).Error; err != nil {
		return err
	}
	entry := models.DocumentLog{
		LogID:        logID,
		DocumentType: string(docType),
		DocumentID:   docID,
		Action:       action,
		UpdatedBy:    actorID,
		Timestamp:    time.Now().UTC(),
		VersionNo:    int(prior) + 1,
	}
	return tx.Create(&entry).Error
}

// LogFilter narrows ListLogs. Zero values mean "no filter" except for
// non-admin actors, who always see only their own entries.
type LogFilter struct {
	DocumentType string
	DocumentID   string
	UserID       string
	From         time.Time
	To           time.Time
	Limit        int
}

// ListLogs returns audit entries newest first. Sales users are pinned to
// their own actions regardless of the requested user filter.
func ListLogs(tx *gorm.DB, actor Actor, f LogFilter) ([]models.DocumentLog, error) {
	q := tx.Model(&models.DocumentLog{})
	if !actor.IsAdmin() {
		q = q.Where("updated_by = ?", actor.UserID)
	} else if f.UserID != "" {
		q = q.Where("updated_by = ?", f.UserID)
	}
	if f.DocumentType != "" {
		q = q.Where("document_type = ?", f.DocumentType)
	}
	if f.DocumentID != "" {
		q = q.Where("document_id = ?", f.DocumentID)
	}
	if !f.From.IsZero() {
		q = q.Where("timestamp >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("timestamp < ?", f.To)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []models.DocumentLog
	err := q.Order("timestamp DESC").Limit(limit).Find(&out).Error
	return out, err
}

// DocumentHistory returns every entry for one document, oldest first.
func DocumentHistory(tx *gorm.DB, docType models.DocType, docID string) ([]models.DocumentLog, error) {
	var out []models.DocumentLog
	err := tx.Where("document_type = ? AND document_id = ?", string(docType), docID).
		Order("version_no ASC").
		Find(&out).Error
	return out, err
}
