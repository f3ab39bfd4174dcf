package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/logger"
	"go.uber.org/zap"
)

// Upstream model cost per enhancement, used for the daily spend estimate.
const costPerEnhancementUSD = 0.039

// AdminStats aggregates usage and revenue numbers for the admin dashboard.
func AdminStats(c *fiber.Ctx) error {
	dayStart := startOfToday()

	totalUsers, err := dataStore.CountUsers()
	if err != nil {
		return statsError(c, err)
	}
	dailyEnhancements, err := dataStore.CountJobs(dayStart)
	if err != nil {
		return statsError(c, err)
	}
	totalEnhancements, err := dataStore.CountJobs(time.Time{})
	if err != nil {
		return statsError(c, err)
	}
	activeUsers, err := dataStore.CountActiveUsers(dayStart)
	if err != nil {
		return statsError(c, err)
	}
	revenueCents, err := dataStore.TotalRevenueCents()
	if err != nil {
		return statsError(c, err)
	}

	return c.JSON(fiber.Map{
		"totalUsers":        totalUsers,
		"dailyEnhancements": dailyEnhancements,
		"totalEnhancements": totalEnhancements,
		"dailyCost":         float64(dailyEnhancements) * costPerEnhancementUSD,
		"totalRevenue":      float64(revenueCents) / 100,
		"activeUsers":       activeUsers,
	})
}

func statsError(c *fiber.Ctx, err error) error {
	logger.Log.Error("failed to fetch admin stats", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to fetch statistics",
	})
}

// EmergencyToggle flips the global kill-switch for enhancement processing.
func EmergencyToggle(c *fiber.Ctx) error {
	type toggleRequest struct {
		Disable bool `json:"disable"`
	}

	var req toggleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	apiDisabled.Store(req.Disable)

	state := "enabled"
	if req.Disable {
		state = "disabled"
	}
	logger.Log.Warn("enhancement API " + state + " by admin")

	return c.JSON(fiber.Map{
		"success":  true,
		"disabled": req.Disable,
		"message":  "API " + state + " successfully",
	})
}
