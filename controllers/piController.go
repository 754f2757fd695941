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

func CreatePI(c *fiber.Ctx) error {
	var data services.PIInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	actor := middlewares.ActorFromCtx(c)

	pi, err := services.CreatePI(database.RequestDB(c), actor, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pi)
}

func GetPIs(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	q := tx.Model(&models.ProformaInvoice{})

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
		q = q.Where("pi_status = ?", status)
	}
	from, to := services.PeriodRange(c.Query("period"), c.Query("from"), c.Query("to"), time.Now())
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to)
	}

	var pis []models.ProformaInvoice
	if err := q.Order("date DESC").Find(&pis).Error; err != nil {
		return err
	}
	return c.JSON(pis)
}

func GetPI(c *fiber.Ctx) error {
	pi, err := services.GetPI(database.RequestDB(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(pi)
}

func UpdatePI(c *fiber.Ctx) error {
	var data services.PIInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	actor := middlewares.ActorFromCtx(c)

	pi, err := services.UpdatePI(database.RequestDB(c), actor, c.Params("id"), data)
	if err != nil {
		return err
	}
	return c.JSON(pi)
}

func DeletePI(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if err := services.DeletePI(database.RequestDB(c), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "proforma invoice deleted", "pi_id": c.Params("id")})
}

func DuplicatePI(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	dup, err := services.DuplicatePI(database.RequestDB(c), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dup)
}

func LockPI(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	pi, err := services.LockPI(database.RequestDB(c), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(pi)
}

func ConvertPIToQuotation(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	q, err := services.ConvertToQuotation(database.RequestDB(c), actor, models.DocTypePI, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

func ConvertPIToSOA(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	s, err := services.ConvertToSOA(database.RequestDB(c), actor, models.DocTypePI, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func PIPDF(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	pi, err := services.GetPI(tx, c.Params("id"))
	if err != nil {
		return err
	}
	return sendDocumentPDF(c, tx, pi)
}

func GetPIVersions(c *fiber.Ctx) error {
	return listDocumentVersions(c, models.DocTypePI)
}

func GetPIHistory(c *fiber.Ctx) error {
	logs, err := services.DocumentHistory(database.RequestDB(c), models.DocTypePI, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
