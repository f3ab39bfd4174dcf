package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/auth"
	"github.com/youngamerican68/Property-Perfect/logger"
	"go.uber.org/zap"
)

// Login checks credentials and mints the bearer token the API expects.
func Login(c *fiber.Ctx) error {
	type loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	user, err := auth.ValidateUserCredentials(dataStore, req.Email, req.Password)
	if err != nil {
		logger.Log.Error("credential check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid email or password",
		})
	}

	token, err := auth.SignToken(user.ID, user.Email)
	if err != nil {
		logger.Log.Error("failed to sign token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create token",
		})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  userResponse(user),
	})
}
