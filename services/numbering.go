package services

import (
	"errors"
	"fmt"
	"strings"

	"salescrm-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nextSeq atomically increments the counter row for kind and returns the new
// value. The UPDATE takes a row lock on the counter, so two transactions
// issuing the same kind serialize and can never see the same sequence.
func nextSeq(tx *gorm.DB, kind string) (int64, error) {
	res := tx.Model(&models.DocumentCounter{}).
		Where("kind = ?", kind).
		Update("value", gorm.Expr("value + ?", 1))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		row := models.DocumentCounter{Kind: kind, Value: 1}
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if ins.Error != nil {
			return 0, ins.Error
		}
		if ins.RowsAffected == 1 {
			return 1, nil
		}
		// Lost the insert race: retry the increment, which now must hit.
		res = tx.Model(&models.DocumentCounter{}).
			Where("kind = ?", kind).
			Update("value", gorm.Expr("value + ?", 1))
		if res.Error != nil {
			return 0, res.Error
		}
	}
	var out models.DocumentCounter
	if err := tx.First(&out, "kind = ?", kind).Error; err != nil {
		return 0, err
	}
	return out.Value, nil
}

// NextID issues the next zero-padded identifier for an entity kind, e.g.
// NextID(tx, "party", "PTY", 4) -> "PTY0007".
func NextID(tx *gorm.DB, kind, prefix string, width int) (string, error) {
	seq, err := nextSeq(tx, kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%0*d", prefix, width, seq), nil
}

// idPrefixes are fixed regardless of the configurable display prefixes, so
// primary keys stay stable when an admin changes numbering settings.
var idPrefixes = map[models.DocType]string{
	models.DocTypeQuotation: "QTN",
	models.DocTypePI:        "PI",
	models.DocTypeSOA:       "SOA",
}

// IssueNumber draws one sequence value for a document type and returns both
// the internal id (fixed prefix) and the display number (settings prefix).
// Both share the sequence, so id QTN0012 always pairs with number *0012.
func IssueNumber(tx *gorm.DB, docType models.DocType) (id string, number string, err error) {
	idPrefix, ok := idPrefixes[docType]
	if !ok {
		return "", "", fmt.Errorf("unknown document type %q", docType)
	}
	settings, err := GetOrCreateSettings(tx)
	if err != nil {
		return "", "", err
	}
	numPrefix := idPrefix
	switch docType {
	case models.DocTypeQuotation:
		if settings.QuotationPrefix != "" {
			numPrefix = settings.QuotationPrefix
		}
	case models.DocTypePI:
		if settings.PIPrefix != "" {
			numPrefix = settings.PIPrefix
		}
	case models.DocTypeSOA:
		if settings.SOAPrefix != "" {
			numPrefix = settings.SOAPrefix
		}
	}
	seq, err := nextSeq(tx, "doc:"+string(docType))
	if err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%s%04d", idPrefix, seq), fmt.Sprintf("%s%04d", numPrefix, seq), nil
}

// QuotationDisplayNo appends the creator suffix shown on quotations:
// the first four letters of the creator's name, upper-cased. Proforma
// invoices and SOAs print their number bare.
func QuotationDisplayNo(number, creatorName string) string {
	name := strings.TrimSpace(creatorName)
	if name == "" {
		name = "USER"
	}
	suffix := []rune(strings.ToUpper(name))
	if len(suffix) > 4 {
		suffix = suffix[:4]
	}
	return number + "/" + string(suffix)
}

// GetOrCreateSettings returns the singleton settings row, creating it with
// defaults on first access.
func GetOrCreateSettings(tx *gorm.DB) (*models.Settings, error) {
	var s models.Settings
	err := tx.First(&s, "settings_id = ?", "default").Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = models.Settings{
			SettingsID:      "default",
			QuotationPrefix: "QTN",
			PIPrefix:        "PI",
			SOAPrefix:       "SOA",
		}
		if err := tx.Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
