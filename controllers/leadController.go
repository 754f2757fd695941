package controllers

import (
	"strings"
	"time"

	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/services"
	"salescrm-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type leadDTO struct {
	PartyName          string `json:"party_name" validate:"required,min=2"`
	PartyAddress       string `json:"party_address"`
	PartyGST           string `json:"party_gst"`
	PartyCity          string `json:"party_city"`
	ContactName        string `json:"contact_name"`
	ContactMobile      string `json:"contact_mobile"`
	RequirementSummary string `json:"requirement_summary"`
	ReferredBy         string `json:"referred_by"`
	Notes              string `json:"notes"`
	LeadDate           string `json:"lead_date"`
	Status             string `json:"status" validate:"omitempty,oneof=Open Converted Lost"`
}

func CreateLead(c *fiber.Ctx) error {
	var data leadDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	actor := middlewares.ActorFromCtx(c)

	tx := database.RequestDB(c)
	leadID, err := services.NextID(tx, "lead", "LEAD", 4)
	if err != nil {
		return err
	}
	leadDate := time.Now().UTC()
	if ts, ok := utils.ParseDate(data.LeadDate); ok {
		leadDate = ts
	}
	status := data.Status
	if status == "" {
		status = "Open"
	}
	lead := models.Lead{
		LeadID:             leadID,
		PartyName:          data.PartyName,
		PartyAddress:       data.PartyAddress,
		PartyGST:           data.PartyGST,
		PartyCity:          data.PartyCity,
		ContactName:        data.ContactName,
		ContactMobile:      data.ContactMobile,
		RequirementSummary: data.RequirementSummary,
		ReferredBy:         data.ReferredBy,
		Notes:              data.Notes,
		CreatedByUserID:    actor.UserID,
		LeadDate:           leadDate,
		Status:             status,
	}
	if err := tx.Create(&lead).Error; err != nil {
		return err
	}
	if err := services.RecordLog(tx, models.DocTypeLead, lead.LeadID, services.ActionCreated, actor.UserID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

func GetLeads(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	q := tx.Model(&models.Lead{})

	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	actor := middlewares.ActorFromCtx(c)
	if !actor.IsAdmin() {
		// Sales users only ever see their own leads.
		q = q.Where("created_by_user_id = ?", actor.UserID)
	} else if userID := c.Query("user_id"); userID != "" {
		q = q.Where("created_by_user_id = ?", userID)
	}
	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(party_name) LIKE ? OR LOWER(contact_name) LIKE ?", like, like)
	}
	from, to := services.PeriodRange(c.Query("period"), c.Query("from"), c.Query("to"), time.Now())
	if !from.IsZero() {
		q = q.Where("lead_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("lead_date < ?", to)
	}

	var leads []models.Lead
	if err := q.Order("lead_date DESC").Find(&leads).Error; err != nil {
		return err
	}
	return c.JSON(leads)
}

func getLead(c *fiber.Ctx) (*models.Lead, error) {
	var lead models.Lead
	if err := database.RequestDB(c).First(&lead, "lead_id = ?", c.Params("id")).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "lead not found")
	}
	return &lead, nil
}

func GetLead(c *fiber.Ctx) error {
	lead, err := getLead(c)
	if err != nil {
		return err
	}
	return c.JSON(lead)
}

func UpdateLead(c *fiber.Ctx) error {
	var data leadDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	lead, err := getLead(c)
	if err != nil {
		return err
	}
	lead.PartyName = data.PartyName
	lead.PartyAddress = data.PartyAddress
	lead.PartyGST = data.PartyGST
	lead.PartyCity = data.PartyCity
	lead.ContactName = data.ContactName
	lead.ContactMobile = data.ContactMobile
	lead.RequirementSummary = data.RequirementSummary
	lead.ReferredBy = data.ReferredBy
	lead.Notes = data.Notes
	if ts, ok := utils.ParseDate(data.LeadDate); ok {
		lead.LeadDate = ts
	}
	if data.Status != "" {
		lead.Status = data.Status
	}
	tx := database.RequestDB(c)
	if err := tx.Save(lead).Error; err != nil {
		return err
	}
	actor := middlewares.ActorFromCtx(c)
	if err := services.RecordLog(tx, models.DocTypeLead, lead.LeadID, services.ActionUpdated, actor.UserID); err != nil {
		return err
	}
	return c.JSON(lead)
}

func DeleteLead(c *fiber.Ctx) error {
	lead, err := getLead(c)
	if err != nil {
		return err
	}
	tx := database.RequestDB(c)
	if err := tx.Delete(&models.Lead{}, "lead_id = ?", lead.LeadID).Error; err != nil {
		return err
	}
	actor := middlewares.ActorFromCtx(c)
	if err := services.RecordLog(tx, models.DocTypeLead, lead.LeadID, services.ActionDeleted, actor.UserID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "lead deleted", "lead_id": lead.LeadID})
}

// MarkLeadConverted flips an open lead to Converted. The follow-up
// quotation is created separately with reference_lead_id pointing here.
func MarkLeadConverted(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	lead, err := services.ConvertLead(database.RequestDB(c), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(lead)
}
