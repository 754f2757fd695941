package controllers

import (
	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/services"

	"github.com/gofiber/fiber/v2"
)

func GetUsers(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if !actor.IsAdmin() {
		return services.Forbidden("only admins can list users")
	}
	var users []models.User
	if err := database.RequestDB(c).Order("user_id ASC").Find(&users).Error; err != nil {
		return err
	}
	return c.JSON(users)
}

type userStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=Active Inactive"`
	Role   string `json:"role" validate:"omitempty,oneof=Admin 'Sales User'"`
}

// UpdateUser lets an admin deactivate an account or change its role.
// Inactive users can no longer log in; their past documents stay put.
func UpdateUser(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	if !actor.IsAdmin() {
		return services.Forbidden("only admins can manage users")
	}

	var data userStatusDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}

	tx := database.RequestDB(c)
	var user models.User
	if err := tx.First(&user, "user_id = ?", c.Params("id")).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}
	user.Status = data.Status
	if data.Role != "" {
		user.Role = data.Role
	}
	if err := tx.Save(&user).Error; err != nil {
		return err
	}
	return c.JSON(user)
}
