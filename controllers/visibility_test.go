package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/services"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ctlDBSeq atomic.Int64

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ctl%d?mode=memory&cache=shared", ctlDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// testApp mounts the handlers behind stubbed auth and transaction locals
// so role scoping can be exercised without real tokens.
func testApp(db *gorm.DB, userID, role, name string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("role", role)
		c.Locals("name", name)
		c.Locals("tx", db)
		return c.Next()
	})
	app.Get("/quotations", GetQuotations)
	app.Get("/leads", GetLeads)
	app.Post("/leads", CreateLead)
	app.Delete("/leads/:id", DeleteLead)
	app.Get("/dashboard/stats", DashboardStats)
	return app
}

func getJSON(t *testing.T, app *fiber.App, path string, out any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func seedOwnedDocs(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.Quotation{
		QuotationID: "QTN0001", QuotationNo: "QTN0001",
		PartyID: "PTY0001", Date: now, CreatedByUserID: "USR0001",
	}).Error)
	require.NoError(t, db.Create(&models.Quotation{
		QuotationID: "QTN0002", QuotationNo: "QTN0002",
		PartyID: "PTY0001", Date: now, CreatedByUserID: "USR0002",
	}).Error)
	require.NoError(t, db.Create(&models.Lead{
		LeadID: "LEAD0001", PartyName: "Acme Traders",
		LeadDate: now, Status: "Open", CreatedByUserID: "USR0001",
	}).Error)
	require.NoError(t, db.Create(&models.Lead{
		LeadID: "LEAD0002", PartyName: "Deccan Supplies",
		LeadDate: now, Status: "Open", CreatedByUserID: "USR0002",
	}).Error)
}

func TestQuotationListScopedToOwnerForSalesUser(t *testing.T) {
	db := testDB(t)
	seedOwnedDocs(t, db)
	app := testApp(db, "USR0001", "Sales User", "Ramesh Kumar")

	var out []models.Quotation
	getJSON(t, app, "/quotations", &out)
	require.Len(t, out, 1)
	assert.Equal(t, "USR0001", out[0].CreatedByUserID)

	// The user filter cannot widen a sales user's view.
	out = nil
	getJSON(t, app, "/quotations?user_id=USR0002", &out)
	require.Len(t, out, 1)
	assert.Equal(t, "USR0001", out[0].CreatedByUserID)
}

func TestQuotationListAdminSeesAllAndFilters(t *testing.T) {
	db := testDB(t)
	seedOwnedDocs(t, db)
	app := testApp(db, "USR0009", "Admin", "Admin User")

	var out []models.Quotation
	getJSON(t, app, "/quotations", &out)
	assert.Len(t, out, 2)

	out = nil
	getJSON(t, app, "/quotations?user_id=USR0002", &out)
	require.Len(t, out, 1)
	assert.Equal(t, "USR0002", out[0].CreatedByUserID)
}

func TestLeadListScopedToOwnerForSalesUser(t *testing.T) {
	db := testDB(t)
	seedOwnedDocs(t, db)
	app := testApp(db, "USR0002", "Sales User", "Suresh Patil")

	var out []models.Lead
	getJSON(t, app, "/leads", &out)
	require.Len(t, out, 1)
	assert.Equal(t, "LEAD0002", out[0].LeadID)
}

func TestDashboardStatsScopedToSalesUser(t *testing.T) {
	db := testDB(t)
	seedOwnedDocs(t, db)
	app := testApp(db, "USR0001", "Sales User", "Ramesh Kumar")

	var stats struct {
		Quotations struct {
			Count int `json:"count"`
		} `json:"quotations"`
		Leads struct {
			Total int `json:"total"`
		} `json:"leads"`
	}
	getJSON(t, app, "/dashboard/stats", &stats)
	assert.Equal(t, 1, stats.Quotations.Count)
	assert.Equal(t, 1, stats.Leads.Total)
}

func TestLeadMutationsAppendAuditEntries(t *testing.T) {
	db := testDB(t)
	app := testApp(db, "USR0001", "Sales User", "Ramesh Kumar")

	req := httptest.NewRequest("POST", "/leads", strings.NewReader(`{"party_name":"New Prospect"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var lead models.Lead
	require.NoError(t, json.Unmarshal(body, &lead))

	resp, err = app.Test(httptest.NewRequest("DELETE", "/leads/"+lead.LeadID, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	logs, err := services.DocumentHistory(db, models.DocTypeLead, lead.LeadID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, services.ActionCreated, logs[0].Action)
	assert.Equal(t, services.ActionDeleted, logs[1].Action)
	assert.Equal(t, "USR0001", logs[0].UpdatedBy)
}
