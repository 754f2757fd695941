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

func reportWindow(c *fiber.Ctx) (time.Time, time.Time) {
	period := c.Query("period")
	if period == "" {
		period = "ytd"
	}
	return services.PeriodRange(period, c.Query("from"), c.Query("to"), time.Now())
}

func windowed(q *gorm.DB, col string, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		q = q.Where(col+" >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where(col+" < ?", to)
	}
	return q
}

// QuotationRegister lists quotations in the window with their totals.
func QuotationRegister(c *fiber.Ctx) error {
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	var quotations []models.Quotation
	if err := windowed(tx.Model(&models.Quotation{}), "date", from, to).
		Order("date ASC").Find(&quotations).Error; err != nil {
		return err
	}
	return c.JSON(registerRows(tx, string(models.DocTypeQuotation), quotationsAsDocs(quotations)))
}

func PIRegister(c *fiber.Ctx) error {
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	var pis []models.ProformaInvoice
	if err := windowed(tx.Model(&models.ProformaInvoice{}), "date", from, to).
		Order("date ASC").Find(&pis).Error; err != nil {
		return err
	}
	docs := make([]models.CommercialDocument, len(pis))
	for i := range pis {
		docs[i] = &pis[i]
	}
	return c.JSON(registerRows(tx, string(models.DocTypePI), docs))
}

func SOARegister(c *fiber.Ctx) error {
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	var soas []models.SOA
	if err := windowed(tx.Model(&models.SOA{}), "date", from, to).
		Order("date ASC").Find(&soas).Error; err != nil {
		return err
	}
	docs := make([]models.CommercialDocument, len(soas))
	for i := range soas {
		docs[i] = &soas[i]
	}
	return c.JSON(registerRows(tx, string(models.DocTypeSOA), docs))
}

func quotationsAsDocs(qs []models.Quotation) []models.CommercialDocument {
	docs := make([]models.CommercialDocument, len(qs))
	for i := range qs {
		docs[i] = &qs[i]
	}
	return docs
}

type registerRow struct {
	DocumentID string  `json:"document_id"`
	DocumentNo string  `json:"document_no"`
	Date       string  `json:"date"`
	PartyName  string  `json:"party_name"`
	Total      float64 `json:"total"`
}

// registerRows resolves per-document totals in one line-item query.
func registerRows(tx *gorm.DB, docType string, docs []models.CommercialDocument) []registerRow {
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.DocumentID()
	}
	type sumRow struct {
		DocID string
		Total float64
	}
	var sums []sumRow
	if len(ids) > 0 {
		tx.Model(&models.LineItem{}).
			Select("doc_id, COALESCE(SUM(total_amount), 0) AS total").
			Where("doc_type = ? AND doc_id IN ?", docType, ids).
			Group("doc_id").
			Scan(&sums)
	}
	totals := make(map[string]float64, len(sums))
	for _, s := range sums {
		totals[s.DocID] = s.Total
	}

	rows := make([]registerRow, 0, len(docs))
	for _, d := range docs {
		rows = append(rows, registerRow{
			DocumentID: d.DocumentID(),
			DocumentNo: d.DocumentNo(),
			Date:       d.DocumentDate().Format("2006-01-02"),
			PartyName:  d.PartySnapshot(),
			Total:      utils.Round2(totals[d.DocumentID()]),
		})
	}
	return rows
}

// PartyWiseSales groups SOA value by party over the window.
func PartyWiseSales(c *fiber.Ctx) error {
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	type row struct {
		PartyID   string  `json:"party_id"`
		PartyName string  `json:"party_name"`
		Documents int64   `json:"documents"`
		Total     float64 `json:"total"`
	}
	var soas []models.SOA
	if err := windowed(tx.Model(&models.SOA{}), "date", from, to).Find(&soas).Error; err != nil {
		return err
	}
	ids := make([]string, len(soas))
	for i, s := range soas {
		ids[i] = s.SOAID
	}
	totals := map[string]float64{}
	if len(ids) > 0 {
		type sumRow struct {
			DocID string
			Total float64
		}
		var sums []sumRow
		if err := tx.Model(&models.LineItem{}).
			Select("doc_id, COALESCE(SUM(total_amount), 0) AS total").
			Where("doc_type = ? AND doc_id IN ?", string(models.DocTypeSOA), ids).
			Group("doc_id").
			Scan(&sums).Error; err != nil {
			return err
		}
		for _, s := range sums {
			totals[s.DocID] = s.Total
		}
	}

	agg := map[string]*row{}
	order := []string{}
	for _, s := range soas {
		r, ok := agg[s.PartyID]
		if !ok {
			r = &row{PartyID: s.PartyID, PartyName: s.PartyNameSnapshot}
			agg[s.PartyID] = r
			order = append(order, s.PartyID)
		}
		r.Documents++
		r.Total = utils.Round2(r.Total + totals[s.SOAID])
	}
	out := make([]row, 0, len(order))
	for _, id := range order {
		out = append(out, *agg[id])
	}
	return c.JSON(out)
}

// ItemWiseSales aggregates quantity and value per item across SOA lines.
func ItemWiseSales(c *fiber.Ctx) error {
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	sub := windowed(tx.Table("soa").Select("soa_id"), "date", from, to)

	type row struct {
		ItemID   string  `json:"item_id"`
		ItemName string  `json:"item_name"`
		Qty      float64 `json:"qty"`
		Total    float64 `json:"total"`
	}
	var rows []row
	if err := tx.Model(&models.LineItem{}).
		Select("item_id, MAX(item_name) AS item_name, SUM(qty) AS qty, COALESCE(SUM(total_amount), 0) AS total").
		Where("doc_type = ? AND doc_id IN (?)", string(models.DocTypeSOA), sub).
		Group("item_id").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		rows[i].Total = utils.Round2(rows[i].Total)
	}
	return c.JSON(rows)
}

// LeadConversion reports the funnel for the window.
func LeadConversion(c *fiber.Ctx) error {
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	counts := fiber.Map{}
	total := int64(0)
	for _, status := range []string{"Open", "Converted", "Lost"} {
		var n int64
		if err := windowed(tx.Model(&models.Lead{}).Where("status = ?", status), "lead_date", from, to).
			Count(&n).Error; err != nil {
			return err
		}
		counts[status] = n
		total += n
	}
	rate := 0.0
	if total > 0 {
		converted, _ := counts["Converted"].(int64)
		rate = utils.Round2(float64(converted) * 100 / float64(total))
	}
	return c.JSON(fiber.Map{"total": total, "by_status": counts, "conversion_rate": rate})
}

// UserWiseActivity counts log actions per user; admin only.
func UserWiseActivity(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if !actor.IsAdmin() {
		return services.Forbidden("only admins can view user activity")
	}
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	type row struct {
		UserID  string `json:"user_id"`
		Name    string `json:"name"`
		Actions int64  `json:"actions"`
	}
	var rows []row
	if err := windowed(tx.Model(&models.DocumentLog{}), "timestamp", from, to).
		Select("document_logs.updated_by AS user_id, COALESCE(MAX(users.name), '') AS name, COUNT(*) AS actions").
		Joins("LEFT JOIN users ON users.user_id = document_logs.updated_by").
		Group("document_logs.updated_by").
		Order("actions DESC").
		Scan(&rows).Error; err != nil {
		return err
	}
	return c.JSON(rows)
}

// PendingDocuments lists unresolved paperwork: open quotations, PIs
// awaiting payment, SOAs where material is still pending.
func PendingDocuments(c *fiber.Ctx) error {
	tx := database.RequestDB(c)

	var openQuotations []models.Quotation
	if err := tx.Where("quotation_status IS NULL OR quotation_status = ?", "In Process").
		Order("date ASC").Find(&openQuotations).Error; err != nil {
		return err
	}
	var unpaidPIs []models.ProformaInvoice
	if err := tx.Where("pi_status = ?", "PI Submitted").
		Order("date ASC").Find(&unpaidPIs).Error; err != nil {
		return err
	}
	var pendingSOAs []models.SOA
	if err := tx.Where("soa_status = ?", "In Process").
		Order("date ASC").Find(&pendingSOAs).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"open_quotations": openQuotations,
		"unpaid_proforma_invoices": unpaidPIs,
		"pending_soa": pendingSOAs,
	})
}

// UserWiseSales totals documents created per user in the window; admin only.
func UserWiseSales(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if !actor.IsAdmin() {
		return services.Forbidden("only admins can view user-wise sales")
	}
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	type row struct {
		UserID    string  `json:"user_id"`
		Documents int64   `json:"documents"`
		Total     float64 `json:"total"`
	}
	agg := map[string]*row{}
	order := []string{}
	add := func(creator string) {
		r, ok := agg[creator]
		if !ok {
			r = &row{UserID: creator}
			agg[creator] = r
			order = append(order, creator)
		}
		r.Documents++
	}

	totalsFor := func(docType string, ids []string) (map[string]float64, error) {
		out := map[string]float64{}
		if len(ids) == 0 {
			return out, nil
		}
		type sumRow struct {
			DocID string
			Total float64
		}
		var sums []sumRow
		if err := tx.Model(&models.LineItem{}).
			Select("doc_id, COALESCE(SUM(total_amount), 0) AS total").
			Where("doc_type = ? AND doc_id IN ?", docType, ids).
			Group("doc_id").
			Scan(&sums).Error; err != nil {
			return nil, err
		}
		for _, s := range sums {
			out[s.DocID] = s.Total
		}
		return out, nil
	}

	var quotations []models.Quotation
	if err := windowed(tx.Model(&models.Quotation{}), "date", from, to).Find(&quotations).Error; err != nil {
		return err
	}
	qIDs := make([]string, len(quotations))
	for i, q := range quotations {
		qIDs[i] = q.QuotationID
		add(q.CreatedByUserID)
	}
	qTotals, err := totalsFor(string(models.DocTypeQuotation), qIDs)
	if err != nil {
		return err
	}
	for _, q := range quotations {
		agg[q.CreatedByUserID].Total = utils.Round2(agg[q.CreatedByUserID].Total + qTotals[q.QuotationID])
	}

	var pis []models.ProformaInvoice
	if err := windowed(tx.Model(&models.ProformaInvoice{}), "date", from, to).Find(&pis).Error; err != nil {
		return err
	}
	piIDs := make([]string, len(pis))
	for i, pi := range pis {
		piIDs[i] = pi.PIID
		add(pi.CreatedByUserID)
	}
	piTotals, err := totalsFor(string(models.DocTypePI), piIDs)
	if err != nil {
		return err
	}
	for _, pi := range pis {
		agg[pi.CreatedByUserID].Total = utils.Round2(agg[pi.CreatedByUserID].Total + piTotals[pi.PIID])
	}

	var soas []models.SOA
	if err := windowed(tx.Model(&models.SOA{}), "date", from, to).Find(&soas).Error; err != nil {
		return err
	}
	soaIDs := make([]string, len(soas))
	for i, s := range soas {
		soaIDs[i] = s.SOAID
		add(s.CreatedByUserID)
	}
	soaTotals, err := totalsFor(string(models.DocTypeSOA), soaIDs)
	if err != nil {
		return err
	}
	for _, s := range soas {
		agg[s.CreatedByUserID].Total = utils.Round2(agg[s.CreatedByUserID].Total + soaTotals[s.SOAID])
	}

	out := make([]row, 0, len(order))
	for _, id := range order {
		out = append(out, *agg[id])
	}
	return c.JSON(out)
}

// QuotationAging lists open quotations with their validity expiry.
func QuotationAging(c *fiber.Ctx) error {
	tx := database.RequestDB(c)

	var quotations []models.Quotation
	if err := tx.Where("quotation_status IS NULL OR quotation_status = ?", "In Process").
		Order("date ASC").Find(&quotations).Error; err != nil {
		return err
	}

	type row struct {
		QuotationID   string `json:"quotation_id"`
		QuotationNo   string `json:"quotation_no"`
		PartyName     string `json:"party_name"`
		Date          string `json:"date"`
		ValidUntil    string `json:"valid_until"`
		DaysRemaining int    `json:"days_remaining"`
		Expired       bool   `json:"expired"`
	}
	now := time.Now().UTC()
	rows := make([]row, 0, len(quotations))
	for _, q := range quotations {
		until := q.Date.AddDate(0, 0, q.ValidityDays)
		remaining := int(until.Sub(now).Hours() / 24)
		rows = append(rows, row{
			QuotationID:   q.QuotationID,
			QuotationNo:   q.QuotationNo,
			PartyName:     q.PartyNameSnapshot,
			Date:          q.Date.Format("2006-01-02"),
			ValidUntil:    until.Format("2006-01-02"),
			DaysRemaining: remaining,
			Expired:       now.After(until),
		})
	}
	return c.JSON(rows)
}

// GSTSummary totals taxable and tax amounts across the three document
// collections, splitting stored intra-state tax half CGST, half SGST.
func GSTSummary(c *fiber.Ctx) error {
	from, to := reportWindow(c)
	tx := database.RequestDB(c)

	type bucket struct {
		Taxable float64 `json:"taxable"`
		CGST    float64 `json:"CGST"`
		SGST    float64 `json:"SGST"`
		IGST    float64 `json:"IGST"`
	}
	out := map[string]*bucket{}

	for docType, table := range map[string]string{
		string(models.DocTypeQuotation): "quotations",
		string(models.DocTypePI):        "proforma_invoices",
		string(models.DocTypeSOA):       "soa",
	} {
		sub := windowed(tx.Table(table).Select(primaryKeyOf(table)), "date", from, to)

		var lines []models.LineItem
		if err := tx.Where("doc_type = ? AND doc_id IN (?)", docType, sub).
			Find(&lines).Error; err != nil {
			return err
		}
		b := &bucket{}
		for _, l := range lines {
			b.Taxable = utils.Round2(b.Taxable + l.TaxableAmount)
			if l.TaxType == models.TaxTypeIntraState {
				half := utils.Round2(l.TaxAmount / 2)
				b.CGST = utils.Round2(b.CGST + half)
				b.SGST = utils.Round2(b.SGST + (l.TaxAmount - half))
			} else {
				b.IGST = utils.Round2(b.IGST + l.TaxAmount)
			}
		}
		out[docType] = b
	}
	return c.JSON(out)
}

// PendingLeads lists open leads oldest first.
func PendingLeads(c *fiber.Ctx) error {
	var leads []models.Lead
	if err := database.RequestDB(c).Where("status = ?", "Open").
		Order("lead_date ASC").Find(&leads).Error; err != nil {
		return err
	}
	return c.JSON(leads)
}
