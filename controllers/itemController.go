package controllers

import (
	"encoding/csv"
	"fmt"
	"strconv"
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

type itemDTO struct {
	ItemCode    string  `json:"item_code"`
	ItemName    string  `json:"item_name" validate:"required,min=2"`
	Description string  `json:"description"`
	UOM         string  `json:"UOM"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	HSN         string  `json:"HSN"`
	GSTPercent  float64 `json:"GST_percent" validate:"gte=0,lte=100"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
}

func getItem(c *fiber.Ctx) (*models.Item, error) {
	var item models.Item
	if err := database.RequestDB(c).First(&item, "item_id = ?", c.Params("id")).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "item not found")
	}
	return &item, nil
}

func CreateItem(c *fiber.Ctx) error {
	var data itemDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	tx := database.RequestDB(c)
	if err := checkItemCodeConflict(tx, data.ItemCode, ""); err != nil {
		return err
	}
	itemID, err := services.NextID(tx, "item", "ITM", 4)
	if err != nil {
		return err
	}
	item := models.Item{
		ItemID:      itemID,
		ItemCode:    data.ItemCode,
		ItemName:    data.ItemName,
		Description: data.Description,
		UOM:         data.UOM,
		Rate:        data.Rate,
		HSN:         data.HSN,
		GSTPercent:  data.GSTPercent,
		Brand:       data.Brand,
		Category:    data.Category,
	}
	if err := tx.Create(&item).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func GetItems(c *fiber.Ctx) error {
	tx := database.RequestDB(c)
	q := tx.Model(&models.Item{})

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(item_name) LIKE ? OR LOWER(item_code) LIKE ? OR LOWER(hsn) LIKE ?", like, like, like)
	}
	if category := c.Query("category"); category != "" {
		q = q.Where("category = ?", category)
	}
	if brand := c.Query("brand"); brand != "" {
		q = q.Where("brand = ?", brand)
	}

	var items []models.Item
	if err := q.Order("item_id ASC").Find(&items).Error; err != nil {
		return err
	}
	return c.JSON(items)
}

func GetItem(c *fiber.Ctx) error {
	item, err := getItem(c)
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func UpdateItem(c *fiber.Ctx) error {
	var data itemDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	item, err := getItem(c)
	if err != nil {
		return err
	}
	if err := checkItemCodeConflict(database.RequestDB(c), data.ItemCode, item.ItemID); err != nil {
		return err
	}
	item.ItemCode = data.ItemCode
	item.ItemName = data.ItemName
	item.Description = data.Description
	item.UOM = data.UOM
	item.Rate = data.Rate
	item.HSN = data.HSN
	item.GSTPercent = data.GSTPercent
	item.Brand = data.Brand
	item.Category = data.Category
	if err := database.RequestDB(c).Save(item).Error; err != nil {
		return err
	}
	return c.JSON(item)
}

// DeleteItem removes the catalog row. Documents already carrying the item
// keep their snapshots, so nothing printed changes.
func DeleteItem(c *fiber.Ctx) error {
	item, err := getItem(c)
	if err != nil {
		return err
	}
	if err := database.RequestDB(c).Delete(&models.Item{}, "item_id = ?", item.ItemID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "item deleted", "item_id": item.ItemID})
}

func DuplicateItem(c *fiber.Ctx) error {
	src, err := getItem(c)
	if err != nil {
		return err
	}
	tx := database.RequestDB(c)
	newID, err := services.NextID(tx, "item", "ITM", 4)
	if err != nil {
		return err
	}
	dup := *src
	dup.ItemID = newID
	dup.ItemCode = ""
	dup.ItemName = src.ItemName + " (Copy)"
	if err := tx.Create(&dup).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dup)
}

var itemCSVHeader = []string{
	"item_id", "item_code", "item_name", "description", "UOM",
	"rate", "HSN", "GST_percent", "brand", "category",
}

func ExportItemsCSV(c *fiber.Ctx) error {
	var items []models.Item
	if err := database.RequestDB(c).Order("item_id ASC").Find(&items).Error; err != nil {
		return err
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write(itemCSVHeader)
	for _, it := range items {
		_ = w.Write([]string{
			it.ItemID, it.ItemCode, it.ItemName, it.Description, it.UOM,
			fmt.Sprintf("%.2f", it.Rate), it.HSN, fmt.Sprintf("%g", it.GSTPercent),
			it.Brand, it.Category,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	filename := fmt.Sprintf("items_%s.csv", time.Now().UTC().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.SendString(sb.String())
}

func ImportItemsCSV(c *fiber.Ctx) error {
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
		name := cell(row, "item_name")
		if name == "" {
			skipped = append(skipped, n+2)
			continue
		}
		rate, _ := strconv.ParseFloat(cell(row, "rate"), 64)
		gst, _ := strconv.ParseFloat(cell(row, "GST_percent"), 64)
		itemID, err := services.NextID(tx, "item", "ITM", 4)
		if err != nil {
			return err
		}
		item := models.Item{
			ItemID:      itemID,
			ItemCode:    cell(row, "item_code"),
			ItemName:    name,
			Description: cell(row, "description"),
			UOM:         cell(row, "UOM"),
			Rate:        utils.Round2(rate),
			HSN:         cell(row, "HSN"),
			GSTPercent:  gst,
			Brand:       cell(row, "brand"),
			Category:    cell(row, "category"),
		}
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		imported++
	}
	return c.JSON(fiber.Map{"imported": imported, "skipped_rows": skipped})
}

// checkItemCodeConflict rejects an item code already used by another
// catalog entry. Blank codes are always allowed.
func checkItemCodeConflict(tx *gorm.DB, code, selfID string) error {
	if code == "" {
		return nil
	}
	var count int64
	q := tx.Model(&models.Item{}).Where("item_code = ?", code)
	if selfID != "" {
		q = q.Where("item_id <> ?", selfID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusConflict, "item code already in use")
	}
	return nil
}
