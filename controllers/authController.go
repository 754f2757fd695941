package controllers

import (
	"net/mail"
	"time"

	"salescrm-backend/database"
	"salescrm-backend/middlewares"
	"salescrm-backend/models"
	"salescrm-backend/services"
	"salescrm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type registerDTO struct {
	Name            string `json:"name" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Mobile          string `json:"mobile"`
	Role            string `json:"role" validate:"omitempty,oneof=Admin 'Sales User'"`
	Password        string `json:"password" validate:"required,min=6"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

func Register(c *fiber.Ctx) error {
	var data registerDTO
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	if _, err := mail.ParseAddress(data.Email); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid email address"})
	}
	if data.Password != data.PasswordConfirm {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "passwords do not match"})
	}

	var mailExist models.User
	database.DB.Where("email = ?", data.Email).First(&mailExist)
	if mailExist.Email != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "email already exists"})
	}

	role := data.Role
	if role == "" {
		role = "Sales User"
	}

	tx := database.DB.Begin()
	userID, err := services.NextID(tx, "user", "USR", 4)
	if err != nil {
		tx.Rollback()
		return err
	}
	user := models.User{
		UserID: userID,
		Name:   data.Name,
		Email:  data.Email,
		Mobile: data.Mobile,
		Role:   role,
		Status: "Active",
	}
	user.SetPassword(data.Password)
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "could not create user",
			"error":   err.Error(),
		})
	}
	tx.Commit()

	return c.Status(fiber.StatusCreated).JSON(user)
}

func Login(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	database.DB.Where("email = ?", data["email"]).First(&user)
	if user.UserID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}
	if user.Status != "Active" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "account is inactive"})
	}
	if err := user.ComparePassword(data["password"]); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid credentials"})
	}

	token, err := middlewares.GenerateJWT(user.UserID, user.Role, user.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout exists for client symmetry. Bearer tokens are stateless, so
// discarding the token client-side is the actual logout.
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "logged out"})
}

func Me(c *fiber.Ctx) error {
	actor := middlewares.ActorFromCtx(c)
	var user models.User
	if err := database.RequestDB(c).First(&user, "user_id = ?", actor.UserID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unknown user")
	}
	return c.JSON(user)
}

func ForgotPassword(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	database.DB.Where("email = ?", data["email"]).First(&user)
	// Same response whether or not the email exists.
	resp := fiber.Map{"message": "if the account exists, a reset token has been issued"}
	if user.UserID == "" {
		return c.JSON(resp)
	}

	reset := models.PasswordReset{
		Token:     uuid.NewString(),
		UserID:    user.UserID,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
		CreatedAt: time.Now().UTC(),
	}
	if err := database.DB.Create(&reset).Error; err != nil {
		return err
	}
	// Token delivery (email) is handled outside this service.
	resp["token"] = reset.Token
	return c.JSON(resp)
}

func ResetPassword(c *fiber.Ctx) error {
	var data map[string]string
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(data["password"]) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "password too short"})
	}

	var reset models.PasswordReset
	database.DB.First(&reset, "token = ?", data["token"])
	if reset.Token == "" || time.Now().UTC().After(reset.ExpiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid or expired token"})
	}

	var user models.User
	if err := database.DB.First(&user, "user_id = ?", reset.UserID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid or expired token"})
	}
	user.SetPassword(data["password"])

	tx := database.DB.Begin()
	if err := tx.Model(&models.User{}).
		Where("user_id = ?", user.UserID).
		Update("password", user.Password).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Delete(&models.PasswordReset{}, "token = ?", reset.Token).Error; err != nil {
		tx.Rollback()
		return err
	}
	tx.Commit()

	return c.JSON(fiber.Map{"message": "password updated"})
}
