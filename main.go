package main

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/ai"
	"github.com/youngamerican68/Property-Perfect/billing"
	"github.com/youngamerican68/Property-Perfect/config"
	"github.com/youngamerican68/Property-Perfect/database"
	handler "github.com/youngamerican68/Property-Perfect/handlers"
	"github.com/youngamerican68/Property-Perfect/logger"
	"github.com/youngamerican68/Property-Perfect/models"
	"github.com/youngamerican68/Property-Perfect/router"
	"github.com/youngamerican68/Property-Perfect/store"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.Log.Sync()

	db := database.GetDB()

	// Run migrations
	if err := database.MigrateModels(&models.User{}, &models.EnhancementJob{}, &models.Purchase{}); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	editor, err := ai.NewGeminiEditor(context.Background(), config.Config("GEMINI_API_KEY"))
	if err != nil {
		logger.Log.Fatal("failed to create image editor", zap.Error(err))
	}

	billingClient := billing.New(
		config.Config("STRIPE_SECRET_KEY"),
		config.Optional("STRIPE_WEBHOOK_SECRET", ""),
	)

	handler.Setup(store.NewGormStore(db), editor, billingClient, handler.Options{
		Disabled:         config.Optional("DISABLE_AI_API", "false") == "true",
		UserDailyLimit:   envInt("USER_DAILY_LIMIT", 10),
		GlobalDailyLimit: envInt("GLOBAL_DAILY_LIMIT", 50),
	})

	// Data URL uploads can be large; the fiber default body limit is 4MB.
	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})
	router.SetupRoutes(app)

	// close the database connection
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Log.Error("failed to close database", zap.Error(err))
		}
	}()

	addr := ":" + config.Optional("PORT", "3000")
	logger.Log.Info("server listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.Log.Fatal("server error", zap.Error(err))
	}
}

func envInt(envVar string, fallback int) int {
	v, err := strconv.Atoi(config.Optional(envVar, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
