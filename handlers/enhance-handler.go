package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/ai"
	"github.com/youngamerican68/Property-Perfect/logger"
	"github.com/youngamerican68/Property-Perfect/middleware"
	"github.com/youngamerican68/Property-Perfect/models"
	"github.com/youngamerican68/Property-Perfect/store"
	"go.uber.org/zap"
)

const (
	enhanceCost    = 1
	welcomeCredits = 5
)

type EnhanceRequest struct {
	ImageURL string `json:"imageUrl"`
	Prompt   string `json:"prompt"`
	Preset   string `json:"preset"`
	// Multi-turn fields are accepted but not replayed: the submitted image
	// already encodes every prior edit, so history text adds nothing.
	EditHistory []string `json:"editHistory"`
	IsMultiTurn bool     `json:"isMultiTurn"`
}

// EnhancePhoto accepts one enhancement request, enforces eligibility,
// calls the image model, and records the outcome.
func EnhancePhoto(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	var req EnhanceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.ImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Image URL is required",
		})
	}

	if apiDisabled.Load() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Enhancement service is temporarily disabled",
		})
	}

	prompt := ai.ResolvePrompt(req.Prompt, req.Preset)

	if middleware.IsTestUser(c) {
		return runTestEnhancement(c, req, prompt)
	}

	user, err := ensureUser(userID, middleware.UserEmail(c))
	if err != nil {
		logger.Log.Error("failed to resolve user", zap.Uint("userID", userID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	dayStart := startOfToday()
	userCount, err := dataStore.CountJobsByUser(user.ID, dayStart)
	if err != nil {
		logger.Log.Error("failed to count user jobs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if userCount >= int64(userDailyLimit) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Daily enhancement limit reached",
		})
	}

	globalCount, err := dataStore.CountJobs(dayStart)
	if err != nil {
		logger.Log.Error("failed to count jobs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	if globalCount >= int64(globalDailyLimit) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Service is at capacity today, please try again tomorrow",
		})
	}

	job := &models.EnhancementJob{
		UserID:           user.ID,
		Status:           models.JobProcessing,
		OriginalImageURL: req.ImageURL,
		Prompt:           prompt,
		Preset:           req.Preset,
		CreditsUsed:      enhanceCost,
	}
	if err := dataStore.CreateJobAndDebit(job); err != nil {
		if errors.Is(err, store.ErrInsufficientCredit) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "Insufficient credits",
			})
		}
		logger.Log.Error("failed to create enhancement job", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create enhancement job",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), enhanceTimeout)
	defer cancel()

	result, err := imageEditor.Edit(ctx, ai.EditRequest{Prompt: prompt, ImageURL: req.ImageURL})
	if err != nil {
		logger.Log.Error("model call failed", zap.Uint("jobID", job.ID), zap.Error(err))
		// The debited credit stays spent; only the job record is updated.
		if err := dataStore.FailJob(job.ID, err.Error()); err != nil {
			logger.Log.Warn("job failure update skipped", zap.Uint("jobID", job.ID), zap.Error(err))
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Enhancement service unavailable",
		})
	}

	enhancedURL := result.ImageURL
	if enhancedURL == "" {
		// Model returned no image part; hand the original back unchanged.
		enhancedURL = req.ImageURL
	}
	if err := dataStore.CompleteJob(job.ID, enhancedURL); err != nil {
		logger.Log.Warn("job completion update skipped", zap.Uint("jobID", job.ID), zap.Error(err))
	}

	return c.JSON(fiber.Map{
		"jobId":            job.ID,
		"status":           models.JobCompleted,
		"originalImageUrl": req.ImageURL,
		"enhancedImageUrl": enhancedURL,
		"prompt":           prompt,
		"creditsUsed":      enhanceCost,
		"createdAt":        job.CreatedAt,
	})
}

// runTestEnhancement serves the reserved test token: the model is invoked
// directly with no user row, no job record, and no debit.
func runTestEnhancement(c *fiber.Ctx, req EnhanceRequest, prompt string) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), enhanceTimeout)
	defer cancel()

	result, err := imageEditor.Edit(ctx, ai.EditRequest{Prompt: prompt, ImageURL: req.ImageURL})
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Enhancement service unavailable",
		})
	}

	enhancedURL := result.ImageURL
	if enhancedURL == "" {
		enhancedURL = req.ImageURL
	}

	return c.JSON(fiber.Map{
		"jobId":            time.Now().Unix(),
		"status":           models.JobCompleted,
		"originalImageUrl": req.ImageURL,
		"enhancedImageUrl": enhancedURL,
		"prompt":           prompt,
		"creditsUsed":      0,
		"createdAt":        time.Now().UTC(),
	})
}

// ensureUser creates the user row lazily on first authenticated request,
// seeding the welcome credit bonus. The row is keyed on the token's email
// claim, never on a forced id, so the primary key sequence stays intact.
func ensureUser(userID uint, email string) (*models.User, error) {
	user, err := dataStore.GetUser(userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if email == "" {
		return nil, errors.New("token carries no email claim")
	}
	user, err = dataStore.GetUserByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		Email:         email,
		Plan:          "Free",
		CreditBalance: welcomeCredits,
	}
	if err := dataStore.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}
