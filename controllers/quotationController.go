package controllers

import (
	"time"

	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/services"
	"salescrm-backend/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateQuotation(c *fiber.Ctx) error {
	var data services.QuotationInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	actor := middlewares.ActorFromCtx(c)

	q, err := services.CreateQuotation(database.RequestDB(c), actor, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

func GetQuotations(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	q := tx.Model(&models.Quotation{})

	if partyID := c.Query("party_id"); partyID != "" {
		q = q.Where("party_id = ?", partyID)
	}
	actor := middlewares.ActorFromCtx(c)
	if !actor.IsAdmin() {
		// Sales users only ever see their own documents.
		q = q.Where("created_by_user_id = ?", actor.UserID)
	} else if userID := c.Query("user_id"); userID != "" {
		q = q.Where("created_by_user_id = ?", userID)
	}
	if c.Query("mine") == "true" {
		q = q.Where("created_by_user_id = ?", actor.UserID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("quotation_status = ?", status)
	}
	from, to := services.PeriodRange(c.Query("period"), c.Query("from"), c.Query("to"), time.Now())
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to)
	}

	var quotations []models.Quotation
	if err := q.Order("date DESC").Find(&quotations).Error; err != nil {
		return err
	}
	return c.JSON(quotations)
}

func GetQuotation(c *fiber.Ctx) error {
	q, err := services.GetQuotation(database.RequestDB(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func UpdateQuotation(c *fiber.Ctx) error {
	var data services.QuotationInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	actor := middlewares.ActorFromCtx(c)

	q, err := services.UpdateQuotation(database.RequestDB(c), actor, c.Params("id"), data)
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func DeleteQuotation(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if err := services.DeleteQuotation(database.RequestDB(c), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "quotation deleted", "quotation_id": c.Params("id")})
}

func DuplicateQuotation(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	dup, err := services.DuplicateQuotation(database.RequestDB(c), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dup)
}

func LockQuotation(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	q, err := services.LockQuotation(database.RequestDB(c), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(q)
}

func ConvertQuotationToPI(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	pi, err := services.ConvertToPI(database.RequestDB(c), actor, models.DocTypeQuotation, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pi)
}

func ConvertQuotationToSOA(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	s, err := services.ConvertToSOA(database.RequestDB(c), actor, models.DocTypeQuotation, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func QuotationPDF(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	q, err := services.GetQuotation(tx, c.Params("id"))
	if err != nil {
		return err
	}
	return sendDocumentPDF(c, tx, q)
}

func GetQuotationVersions(c *fiber.Ctx) error {
	return listDocumentVersions(c, models.DocTypeQuotation)
}

func GetQuotationHistory(c *fiber.Ctx) error {
	logs, err := services.DocumentHistory(database.RequestDB(c), models.DocTypeQuotation, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
