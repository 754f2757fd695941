package controllers

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/services"
	"salescrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type partyDTO struct {
	PartyName     string `json:"party_name" validate:"required,min=2"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state" validate:"required"`
	Pincode       string `json:"pincode"`
	GSTNumber     string `json:"GST_number"`
	ContactPerson string `json:"contact_person"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email" validate:"omitempty,email"`
}

func CreateParty(c *fiber.Ctx) error {
	var data partyDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	tx := database.RequestDB(c)
	if err := checkGSTConflict(tx, data.GSTNumber, ""); err != nil {
		return err
	}
	partyID, err := services.NextID(tx, "party", "PTY", 4)
	if err != nil {
		return err
	}
	party := models.Party{
		PartyID:       partyID,
		PartyName:     data.PartyName,
		Address:       data.Address,
		City:          data.City,
		State:         data.State,
		Pincode:       data.Pincode,
		GSTNumber:     data.GSTNumber,
		ContactPerson: data.ContactPerson,
		Mobile:        data.Mobile,
		Email:         data.Email,
		Status:        "Active",
	}
	if err := tx.Create(&party).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(party)
}

func GetParties(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	q := tx.Model(&models.Party{})

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(party_name) LIKE ? OR LOWER(city) LIKE ? OR LOWER(gst_number) LIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var parties []models.Party
	if err := q.Order("party_id ASC").Find(&parties).Error; err != nil {
		return err
	}
	return c.JSON(parties)
}

func GetParty(c *fiber.Ctx) error {
	party, err := services.ResolveParty(database.RequestDB(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(party)
}

func UpdateParty(c *fiber.Ctx) error {
	var data partyDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	tx := database.RequestDB(c)
	party, err := services.ResolveParty(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if err := checkGSTConflict(tx, data.GSTNumber, party.PartyID); err != nil {
		return err
	}
	party.PartyName = data.PartyName
	party.Address = data.Address
	party.City = data.City
	party.State = data.State
	party.Pincode = data.Pincode
	party.GSTNumber = data.GSTNumber
	party.ContactPerson = data.ContactPerson
	party.Mobile = data.Mobile
	party.Email = data.Email
	if err := tx.Save(party).Error; err != nil {
		return err
	}
	return c.JSON(party)
}

// DeleteParty only deactivates; documents keep pointing at the row.
func DeleteParty(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	party, err := services.ResolveParty(tx, c.Params("id"))
	if err != nil {
		return err
	}
	if err := tx.Model(&models.Party{}).
		Where("party_id = ?", party.PartyID).
		Update("status", "Inactive").Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "party deactivated", "party_id": party.PartyID})
}

func DuplicateParty(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	src, err := services.ResolveParty(tx, c.Params("id"))
	if err != nil {
		return err
	}
	newID, err := services.NextID(tx, "party", "PTY", 4)
	if err != nil {
		return err
	}
	dup := *src
	dup.PartyID = newID
	dup.PartyName = src.PartyName + " (Copy)"
	dup.GSTNumber = ""
	dup.Status = "Active"
	if err := tx.Create(&dup).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dup)
}

var partyCSVHeader = []string{
	"party_id", "party_name", "address", "city", "state", "pincode",
	"GST_number", "contact_person", "mobile", "email", "status",
}

func ExportPartiesCSV(c *fiber.Ctx) error {
	var parties []models.Party
	if err := database.RequestDB(c).Order("party_id ASC").Find(&parties).Error; err != nil {
		return err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(partyCSVHeader)
	for _, p := range parties {
		_ = w.Write([]string{
			p.PartyID, p.PartyName, p.Address, p.City, p.State, p.Pincode,
			p.GSTNumber, p.ContactPerson, p.Mobile, p.Email, p.Status,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	filename := fmt.Sprintf("parties_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.SendString(sb.String())
}

// ImportPartiesCSV accepts the export format, id column optional. Rows
// with an unknown state or empty name are reported back, not imported.
func ImportPartiesCSV(c *fiber.Ctx) error {
	r := csv.NewReader(strings.NewReader(string(c.Body())))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid CSV payload")
	}
	if len(records) < 2 {
		return fiber.NewError(fiber.StatusBadRequest, "CSV has no data rows")
	}

	head := map[string]int{}
	for i, name := range records[0] {
		head[strings.TrimSpace(name)] = i
	}
	cell := func(row []string, name string) string {
		idx, ok := head[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	tx := database.RequestDB(c)
	imported := 0
	var skipped []int
	for n, row := range records[1:] {
		name := cell(row, "party_name")
		state := cell(row, "state")
		if name == "" || state == "" {
			skipped = append(skipped, n+2)
			continue
		}
		if gst := cell(row, "GST_number"); gst != "" {
			var dup int64
			if err := tx.Model(&models.Party{}).Where("gst_number = ?", gst).Count(&dup).Error; err != nil {
				return err
			}
			if dup > 0 {
				skipped = append(skipped, n+2)
				continue
			}
		}
		partyID, err := services.NextID(tx, "party", "PTY", 4)
		if err != nil {
			return err
		}
		party := models.Party{
			PartyID:       partyID,
			PartyName:     name,
			Address:       cell(row, "address"),
			City:          cell(row, "city"),
			State:         state,
			Pincode:       cell(row, "pincode"),
			GSTNumber:     cell(row, "GST_number"),
			ContactPerson: cell(row, "contact_person"),
			Mobile:        cell(row, "mobile"),
			Email:         cell(row, "email"),
			Status:        "Active",
		}
		if err := tx.Create(&party).Error; err != nil {
			return err
		}
		imported++
	}
	return c.JSON(fiber.Map{"imported": imported, "skipped_rows": skipped})
}

// checkGSTConflict rejects a GST number already registered to another
// party. Blank numbers are always allowed.
func checkGSTConflict(tx *gorm.DB, gst, selfID string) error {
	if gst == "" {
		return nil
	}
	var count int64
	q := tx.Model(&models.Party{}).Where("gst_number = ?", gst)
	if selfID != "" {
		q = q.Where("party_id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "GST number already registered to another party")
	}
	return nil
}
