package controllers

import (
	"time"

	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/services"
	"salescrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func docTotal(tx *gorm.DB, docType string, from, to time.Time, dateCol string, table string, creator string) (int64, float64, error) {
	q := tx.Table(table)
	if creator != "" {
		q = q.Where("created_by_user_id = ?", creator)
	}
	if !from.IsZero() {
		q = q.Where(dateCol+" >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where(dateCol+" < ?", to)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, 0, err
	}

	// Sum over line rows of documents in the window.
	sub := tx.Table(table).Select(primaryKeyOf(table))
	if creator != "" {
		sub = sub.Where("created_by_user_id = ?", creator)
	}
	if !from.IsZero() {
		sub = sub.Where(dateCol+" >= ?", from)
	}
	if !to.IsZero() {
		sub = sub.Where(dateCol+" < ?", to)
	}
	var total float64
	err := tx.Model(&models.LineItem{}).
		Where("doc_type = ? AND doc_id IN (?)", docType, sub).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&total).Error
	return count, utils.Round2(total), err
}

func primaryKeyOf(table string) string {
	switch table {
	case "proforma_invoices":
		return "pi_id"
	case "soa":
		return "soa_id"
	default:
		return "quotation_id"
	}
}

// DashboardStats aggregates document counts and values plus lead funnel
// numbers for the requested period (default: current fiscal year).
func DashboardStats(c *fiber.Ctx) error {
	period := c.Query("period")
	if period == "" {
		period = "ytd"
	}
	from, to := services.PeriodRange(period, c.Query("from"), c.Query("to"), time.Now())
	tx := database.RequestDB(c)

	actor := middlewares.ActorFromCtx(c)
	creator := ""
	if !actor.IsAdmin() {
		// Sales users see their own numbers only.
		creator = actor.UserID
	}

	qtnCount, qtnTotal, err := docTotal(tx, string(models.DocTypeQuotation), from, to, "date", "quotations", creator)
	if err != nil {
		return err
	}
	piCount, piTotal, err := docTotal(tx, string(models.DocTypePI), from, to, "date", "proforma_invoices", creator)
	if err != nil {
		return err
	}
	soaCount, soaTotal, err := docTotal(tx, string(models.DocTypeSOA), from, to, "date", "soa", creator)
	if err != nil {
		return err
	}

	leadQ := tx.Model(&models.Lead{})
	if creator != "" {
		leadQ = leadQ.Where("created_by_user_id = ?", creator)
	}
	if !from.IsZero() {
		leadQ = leadQ.Where("lead_date >= ?", from)
	}
	if !to.IsZero() {
		leadQ = leadQ.Where("lead_date < ?", to)
	}
	var leadsTotal int64
	if err := leadQ.Count(&leadsTotal).Error; err != nil {
		return err
	}
	var leadsConverted int64
	convQ := tx.Model(&models.Lead{}).Where("status = ?", "Converted")
	if creator != "" {
		convQ = convQ.Where("created_by_user_id = ?", creator)
	}
	if !from.IsZero() {
		convQ = convQ.Where("lead_date >= ?", from)
	}
	if !to.IsZero() {
		convQ = convQ.Where("lead_date < ?", to)
	}
	if err := convQ.Count(&leadsConverted).Error; err != nil {
		return err
	}

	var activeParties int64
	if err := tx.Model(&models.Party{}).Where("status = ?", "Active").Count(&activeParties).Error; err != nil {
		return err
	}
	var itemCount int64
	if err := tx.Model(&models.Item{}).Count(&itemCount).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"period": period,
		"quotations": fiber.Map{"count": qtnCount, "total": qtnTotal},
		"proforma_invoices": fiber.Map{"count": piCount, "total": piTotal},
		"soa": fiber.Map{"count": soaCount, "total": soaTotal},
		"leads": fiber.Map{"total": leadsTotal, "converted": leadsConverted},
		"active_parties": activeParties,
		"items": itemCount,
	})
}

// DashboardActivity returns the recent document log entries, scoped to
// the caller's own actions for non-admins.
func DashboardActivity(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	from, to := services.PeriodRange(c.Query("period"), c.Query("from"), c.Query("to"), time.Now())
	if from.IsZero() && !actor.IsAdmin() {
		// Sales users get a rolling month by default.
		from = time.Now().UTC().AddDate(0, 0, -30)
	}

	logs, err := services.ListLogs(database.RequestDB(c), actor, services.LogFilter{
		From:  from,
		To:    to,
		Limit: utils.ParseIntDefault(c.Query("limit"), 50),
	})
	if err != nil {
		return err
	}
	return c.JSON(logs)
}

// GetLogs is the full audit listing with filters; same scoping rules.
func GetLogs(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	from, to := services.PeriodRange(c.Query("period"), c.Query("from"), c.Query("to"), time.Now())

	logs, err := services.ListLogs(database.RequestDB(c), actor, services.LogFilter{
		DocumentType: c.Query("document_type"),
		DocumentID:   c.Query("document_id"),
		UserID:       c.Query("user_id"),
		From:         from,
		To:           to,
		Limit:        utils.ParseIntDefault(c.Query("limit"), 100),
	})
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
