package middlewares

import (
	"log"

	"salescrm-backend/database"

	"github.com/gofiber/fiber/v2"
)

// Tx opens a per-request DB transaction. Run AFTER IsAuthenticatedHeader()
// and AFTER Idempotency() (so idempotency records aren't tied to the
// handler TX). A handler error rolls everything back, so a failed convert
// leaves neither a partial target document nor an orphaned log entry.
func Tx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Printf("tx commit failed: %v", e)
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via database.RequestDB(c).
		c.Locals("tx", tx)

		err = c.Next()
		return err
	}
}
