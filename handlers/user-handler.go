package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/auth"
	"github.com/youngamerican68/Property-Perfect/logger"
	"github.com/youngamerican68/Property-Perfect/models"
	"github.com/youngamerican68/Property-Perfect/store"
	"go.uber.org/zap"
)

type UserResponse struct {
	ID            uint   `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	CreditBalance int    `json:"creditBalance"`
	Plan          string `json:"plan"`
	JoinedAt      string `json:"joinedAt"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		CreditBalance: u.CreditBalance,
		Plan:          u.Plan,
		JoinedAt:      u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func userIDFromQuery(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("userId"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func GetUser(c *fiber.Ctx) error {
	id, ok := userIDFromQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	user, err := dataStore.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		logger.Log.Error("failed to fetch user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(userResponse(user))
}

func CreateUser(c *fiber.Ctx) error {
	type newUserRequest struct {
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Password  string `json:"password"`
	}

	var req newUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields",
		})
	}

	if _, err := dataStore.GetUserByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Email already registered",
		})
	} else if !errors.Is(err, store.ErrNotFound) {
		logger.Log.Error("failed to check email", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		logger.Log.Error("failed to hash password", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	user := &models.User{
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      hash,
		Plan:          "Free",
		CreditBalance: welcomeCredits,
	}
	if err := dataStore.CreateUser(user); err != nil {
		logger.Log.Error("failed to create user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create user account",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

func UpdateUser(c *fiber.Ctx) error {
	type updateRequest struct {
		UserID  uint `json:"userId"`
		Updates struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Plan      string `json:"plan"`
		} `json:"updates"`
	}

	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.UserID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	user, err := dataStore.GetUser(req.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		logger.Log.Error("failed to fetch user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if req.Updates.FirstName != "" {
		user.FirstName = req.Updates.FirstName
	}
	if req.Updates.LastName != "" {
		user.LastName = req.Updates.LastName
	}
	if req.Updates.Plan != "" {
		user.Plan = req.Updates.Plan
	}

	if err := dataStore.UpdateUser(user); err != nil {
		logger.Log.Error("failed to update user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user data",
		})
	}

	return c.JSON(userResponse(user))
}

func DeleteUser(c *fiber.Ctx) error {
	id, ok := userIDFromQuery(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	if err := dataStore.DeleteUser(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		logger.Log.Error("failed to delete user", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete user account",
		})
	}

	return c.JSON(fiber.Map{
		"message": "User account deleted successfully",
	})
}
