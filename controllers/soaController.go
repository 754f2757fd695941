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

func CreateSOA(c *fiber.Ctx) error {
	var data services.SOAInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	actor := middlewares.ActorFromCtx(c)

	s, err := services.CreateSOA(database.RequestDB(c), actor, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(s)
}

func GetSOAs(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	q := tx.Model(&models.SOA{})

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
		q = q.Where("soa_status = ?", status)
	}
	from, to := services.PeriodRange(c.Query("period"), c.Query("from"), c.Query("to"), time.Now())
	if !from.IsZero() {
		q = q.Where("date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("date < ?", to)
	}

	var soas []models.SOA
	if err := q.Order("date DESC").Find(&soas).Error; err != nil {
		return err
	}
	return c.JSON(soas)
}

func GetSOA(c *fiber.Ctx) error {
	s, err := services.GetSOA(database.RequestDB(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func UpdateSOA(c *fiber.Ctx) error {
	var data services.SOAInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)
	actor := middlewares.ActorFromCtx(c)

	s, err := services.UpdateSOA(database.RequestDB(c), actor, c.Params("id"), data)
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func DeleteSOA(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if err := services.DeleteSOA(database.RequestDB(c), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "SOA deleted", "soa_id": c.Params("id")})
}

func DuplicateSOA(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	dup, err := services.DuplicateSOA(database.RequestDB(c), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dup)
}

func LockSOA(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	s, err := services.LockSOA(database.RequestDB(c), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func ConvertSOAToQuotation(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	q, err := services.ConvertToQuotation(database.RequestDB(c), actor, models.DocTypeSOA, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

func ConvertSOAToPI(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	pi, err := services.ConvertToPI(database.RequestDB(c), actor, models.DocTypeSOA, c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(pi)
}

func SOAPDF(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	s, err := services.GetSOA(tx, c.Params("id"))
	if err != nil {
		return err
	}
	return sendDocumentPDF(c, tx, s)
}

func GetSOAVersions(c *fiber.Ctx) error {
	return listDocumentVersions(c, models.DocTypeSOA)
}

func GetSOAHistory(c *fiber.Ctx) error {
	logs, err := services.DocumentHistory(database.RequestDB(c), models.DocTypeSOA, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(logs)
}
