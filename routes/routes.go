package routes

import (
	"github.com/gofiber/fiber/v2"

	"salescrm-backend/controllers"
	"salescrm-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/register", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)
	api.Post("/forgot-password", controllers.ForgotPassword)
	api.Post("/reset-password", controllers.ResetPassword)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits/rolls back around the handler)
	protected.Use(middlewares.Tx())

	protected.Get("/me", controllers.Me)

	// Parties
	protected.Post("/parties", controllers.CreateParty)
	protected.Get("/parties", controllers.GetParties)
	protected.Get("/parties/export", controllers.ExportPartiesCSV)
	protected.Post("/parties/import", controllers.ImportPartiesCSV)
	protected.Get("/parties/:id", controllers.GetParty)
	protected.Put("/parties/:id", controllers.UpdateParty)
	protected.Delete("/parties/:id", controllers.DeleteParty)
	protected.Post("/parties/:id/duplicate", controllers.DuplicateParty)

	// Items
	protected.Post("/items", controllers.CreateItem)
	protected.Get("/items", controllers.GetItems)
	protected.Get("/items/export", controllers.ExportItemsCSV)
	protected.Post("/items/import", controllers.ImportItemsCSV)
	protected.Get("/items/:id", controllers.GetItem)
	protected.Put("/items/:id", controllers.UpdateItem)
	protected.Delete("/items/:id", controllers.DeleteItem)
	protected.Post("/items/:id/duplicate", controllers.DuplicateItem)

	// Leads
	protected.Post("/leads", controllers.CreateLead)
	protected.Get("/leads", controllers.GetLeads)
	protected.Get("/leads/:id", controllers.GetLead)
	protected.Put("/leads/:id", controllers.UpdateLead)
	protected.Delete("/leads/:id", controllers.DeleteLead)
	protected.Put("/leads/:id/convert", controllers.MarkLeadConverted)

	// Quotations
	protected.Post("/quotations", controllers.CreateQuotation)
	protected.Get("/quotations", controllers.GetQuotations)
	protected.Get("/quotations/:id", controllers.GetQuotation)
	protected.Put("/quotations/:id", controllers.UpdateQuotation)
	protected.Delete("/quotations/:id", controllers.DeleteQuotation)
	protected.Post("/quotations/:id/duplicate", controllers.DuplicateQuotation)
	protected.Put("/quotations/:id/lock", controllers.LockQuotation)
	protected.Post("/quotations/:id/convert/pi", controllers.ConvertQuotationToPI)
	protected.Post("/quotations/:id/convert/soa", controllers.ConvertQuotationToSOA)
	protected.Get("/quotations/:id/pdf", controllers.QuotationPDF)
	protected.Get("/quotations/:id/versions", controllers.GetQuotationVersions)
	protected.Get("/quotations/:id/history", controllers.GetQuotationHistory)

	// Proforma invoices
	protected.Post("/proforma-invoices", controllers.CreatePI)
	protected.Get("/proforma-invoices", controllers.GetPIs)
	protected.Get("/proforma-invoices/:id", controllers.GetPI)
	protected.Put("/proforma-invoices/:id", controllers.UpdatePI)
	protected.Delete("/proforma-invoices/:id", controllers.DeletePI)
	protected.Post("/proforma-invoices/:id/duplicate", controllers.DuplicatePI)
	protected.Put("/proforma-invoices/:id/lock", controllers.LockPI)
	protected.Post("/proforma-invoices/:id/convert/quotation", controllers.ConvertPIToQuotation)
	protected.Post("/proforma-invoices/:id/convert/soa", controllers.ConvertPIToSOA)
	protected.Get("/proforma-invoices/:id/pdf", controllers.PIPDF)
	protected.Get("/proforma-invoices/:id/versions", controllers.GetPIVersions)
	protected.Get("/proforma-invoices/:id/history", controllers.GetPIHistory)

	// SOA
	protected.Post("/soa", controllers.CreateSOA)
	protected.Get("/soa", controllers.GetSOAs)
	protected.Get("/soa/:id", controllers.GetSOA)
	protected.Put("/soa/:id", controllers.UpdateSOA)
	protected.Delete("/soa/:id", controllers.DeleteSOA)
	protected.Post("/soa/:id/duplicate", controllers.DuplicateSOA)
	protected.Put("/soa/:id/lock", controllers.LockSOA)
	protected.Post("/soa/:id/convert/quotation", controllers.ConvertSOAToQuotation)
	protected.Post("/soa/:id/convert/pi", controllers.ConvertSOAToPI)
	protected.Get("/soa/:id/pdf", controllers.SOAPDF)
	protected.Get("/soa/:id/versions", controllers.GetSOAVersions)
	protected.Get("/soa/:id/history", controllers.GetSOAHistory)

	// Settings
	protected.Get("/settings", controllers.GetSettings)
	protected.Put("/settings", controllers.UpdateSettings)

	// Users (admin)
	protected.Get("/users", controllers.GetUsers)
	protected.Put("/users/:id", controllers.UpdateUser)

	// Dashboard and audit log
	protected.Get("/dashboard/stats", controllers.DashboardStats)
	protected.Get("/dashboard/activity", controllers.DashboardActivity)
	protected.Get("/logs", controllers.GetLogs)

	// Reports
	protected.Get("/reports/quotation-register", controllers.QuotationRegister)
	protected.Get("/reports/pi-register", controllers.PIRegister)
	protected.Get("/reports/soa-register", controllers.SOARegister)
	protected.Get("/reports/party-wise-sales", controllers.PartyWiseSales)
	protected.Get("/reports/item-wise-sales", controllers.ItemWiseSales)
	protected.Get("/reports/lead-conversion", controllers.LeadConversion)
	protected.Get("/reports/user-wise-activity", controllers.UserWiseActivity)
	protected.Get("/reports/user-wise-sales", controllers.UserWiseSales)
	protected.Get("/reports/quotation-aging", controllers.QuotationAging)
	protected.Get("/reports/gst-summary", controllers.GSTSummary)
	protected.Get("/reports/pending-leads", controllers.PendingLeads)
	protected.Get("/reports/pending-documents", controllers.PendingDocuments)
}
