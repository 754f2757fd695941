package controllers

import (
	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/services"
	"salescrm-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type settingsDTO struct {
	QuotationPrefix    string `json:"quotation_prefix" validate:"omitempty,max=10,alphanum"`
	PIPrefix           string `json:"pi_prefix" validate:"omitempty,max=10,alphanum"`
	SOAPrefix          string `json:"soa_prefix" validate:"omitempty,max=10,alphanum"`
	PaymentTerms       string `json:"payment_terms"`
	DeliveryTerms      string `json:"delivery_terms"`
	TermsAndConditions string `json:"terms_and_conditions"`
}

func GetSettings(c *fiber.Ctx) error {
	s, err := services.GetOrCreateSettings(database.RequestDB(c))
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// UpdateSettings is admin only. Prefix changes affect future numbers;
// existing documents keep the number they were issued.
func UpdateSettings(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if !actor.IsAdmin() {
		return services.Forbidden("only admins can change settings")
	}

	var data settingsDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	tx := database.RequestDB(c)
	s, err := services.GetOrCreateSettings(tx)
	if err != nil {
		return err
	}
	if data.QuotationPrefix != "" {
		s.QuotationPrefix = data.QuotationPrefix
	}
	if data.PIPrefix != "" {
		s.PIPrefix = data.PIPrefix
	}
	if data.SOAPrefix != "" {
		s.SOAPrefix = data.SOAPrefix
	}
	s.PaymentTerms = data.PaymentTerms
	s.DeliveryTerms = data.DeliveryTerms
	s.TermsAndConditions = data.TermsAndConditions
	if err := tx.Save(s).Error; err != nil {
		return err
	}
	return c.JSON(s)
}
