package database

import (
	"fmt"

	"salescrm-backend/models"

	"gorm.io/gorm"
)

// AutoMigrate creates/updates tables for every model. Safe on any dialect;
// the service tests run it against an in-memory database.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.PasswordReset{},
		&models.Party{},
		&models.Item{},
		&models.Lead{},
		&models.Quotation{},
		&models.ProformaInvoice{},
		&models.SOA{},
		&models.LineItem{},
		&models.DocumentLog{},
		&models.DocumentVersion{},
		&models.Settings{},
		&models.DocumentCounter{},
		&models.IdempotencyKey{},
	)
}

// Migrate applies full schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - Money column types (NUMERIC(12,2))
// - Composite indexes
// - Basic CHECK constraints
// The raw statements are Postgres-only and idempotent.
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := AutoMigrate(tx); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE items          ALTER COLUMN rate            TYPE numeric(12,2)`,
			`ALTER TABLE line_items     ALTER COLUMN rate            TYPE numeric(12,2)`,
			`ALTER TABLE line_items     ALTER COLUMN taxable_amount  TYPE numeric(12,2)`,
			`ALTER TABLE line_items     ALTER COLUMN tax_amount      TYPE numeric(12,2)`,
			`ALTER TABLE line_items     ALTER COLUMN total_amount    TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_document_items_doc ON line_items (doc_type, doc_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_document_versions_doc_version ON document_versions (document_type, document_id, version_no)`,
			`CREATE INDEX IF NOT EXISTS idx_document_logs_doc ON document_logs (document_id, timestamp)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'line_items'::regclass
					  AND conname  = 'chk_line_items_qty_nonneg'
				) THEN
					ALTER TABLE line_items
					ADD CONSTRAINT chk_line_items_qty_nonneg
					CHECK (qty >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'items'::regclass
					  AND conname  = 'chk_items_rate_nonneg'
				) THEN
					ALTER TABLE items
					ADD CONSTRAINT chk_items_rate_nonneg
					CHECK (rate >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'document_counters'::regclass
					  AND conname  = 'chk_document_counters_value_nonneg'
				) THEN
					ALTER TABLE document_counters
					ADD CONSTRAINT chk_document_counters_value_nonneg
					CHECK (value >= 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
