package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82"
	"github.com/youngamerican68/Property-Perfect/billing"
	"github.com/youngamerican68/Property-Perfect/logger"
	"github.com/youngamerican68/Property-Perfect/middleware"
	"go.uber.org/zap"
)

// CreateCheckoutSession starts a hosted payment session for a credit pack.
func CreateCheckoutSession(c *fiber.Ctx) error {
	userID, err := middleware.CheckUserLoggedIn(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	type checkoutRequest struct {
		PlanType string `json:"planType"`
		Credits  int    `json:"credits"`
		Price    int64  `json:"price"`
	}

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.PlanType == "" || req.Credits == 0 || req.Price == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing required fields: planType, credits, price",
		})
	}

	plan, ok := billing.Plans[req.PlanType]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan type",
		})
	}
	if req.Credits != plan.Credits || req.Price != plan.PriceUSD {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan configuration",
		})
	}

	origin := c.Get("Origin")
	if origin == "" {
		origin = "http://localhost:3000"
	}

	sess, err := billingClient.CreateCheckoutSession(billing.CheckoutRequest{
		UserID:    userID,
		UserEmail: middleware.UserEmail(c),
		PlanType:  req.PlanType,
		Origin:    origin,
	})
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   "Payment service error",
				"message": stripeErr.Msg,
			})
		}
		logger.Log.Error("failed to create checkout session", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create checkout session",
		})
	}

	return c.JSON(fiber.Map{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}
