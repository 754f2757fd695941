package controllers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/pdf"
	"salescrm-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// sendDocumentPDF renders a document and streams it with the standard
// download name: {type}_{number}_{user}_{timestamp}.pdf.
func sendDocumentPDF(c *fiber.Ctx, tx *gorm.DB, doc models.CommercialDocument) error {
	vm, err := services.BuildViewModel(tx, doc)
	if err != nil {
		return err
	}
	reader, err := pdf.Render(vm)
	if err != nil {
		return err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	actor := middlewares.ActorFromCtx(c)
	user := strings.ReplaceAll(strings.TrimSpace(actor.Name), " ", "_")
	if user == "" {
		user = actor.UserID
	}
	filename := fmt.Sprintf("%s_%s_%s_%s.pdf",
		strings.ToLower(string(doc.Type())),
		doc.DocumentNo(),
		user,
		time.Now().UTC().Format("20060102_150405"),
	)

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}

func listDocumentVersions(c *fiber.Ctx, docType models.DocType) error {
	var versions []models.DocumentVersion
	err := database.RequestDB(c).
		Where("document_type = ? AND document_id = ?", string(docType), c.Params("id")).
		Order("version_no ASC").
		Find(&versions).Error
	if err != nil {
		return err
	}
	return c.JSON(versions)
}
