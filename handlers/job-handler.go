package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/logger"
	"github.com/youngamerican68/Property-Perfect/middleware"
	"github.com/youngamerican68/Property-Perfect/models"
	"go.uber.org/zap"
)

const recentJobsLimit = 20

// ListJobs returns the authenticated user's recent enhancement jobs,
// newest first.
func ListJobs(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if middleware.IsTestUser(c) {
		return c.JSON([]models.EnhancementJob{})
	}

	jobs, err := dataStore.ListJobsByUser(userID, recentJobsLimit)
	if err != nil {
		logger.Log.Error("failed to list jobs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch jobs",
		})
	}
	if jobs == nil {
		jobs = []models.EnhancementJob{}
	}

	return c.JSON(jobs)
}
