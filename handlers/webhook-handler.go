package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v82"
	"github.com/youngamerican68/Property-Perfect/billing"
	"github.com/youngamerican68/Property-Perfect/logger"
	"github.com/youngamerican68/Property-Perfect/models"
	"github.com/youngamerican68/Property-Perfect/store"
	"go.uber.org/zap"
)

// StripeWebhook converts verified payment events into credit grants and
// purchase records. Stripe retries on 500, so transient store failures are
// surfaced; malformed payloads are terminal 400s.
func StripeWebhook(c *fiber.Ctx) error {
	event, err := billingClient.ParseEvent(c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) {
			logger.Log.Error("webhook signature verification failed", zap.Error(err))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid signature",
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON",
		})
	}

	logger.Log.Info("stripe webhook received",
		zap.String("type", string(event.Type)),
		zap.String("id", event.ID))

	switch event.Type {
	case "checkout.session.completed":
		if err := handleCheckoutCompleted(event); err != nil {
			logger.Log.Error("checkout completion failed", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Webhook handler failed",
			})
		}

	case "payment_intent.succeeded",
		"payment_intent.payment_failed",
		"customer.subscription.created",
		"customer.subscription.updated",
		"customer.subscription.deleted",
		"invoice.payment_succeeded",
		"invoice.payment_failed":
		// acknowledged, no account action taken

	default:
		logger.Log.Info("unhandled stripe event", zap.String("type", string(event.Type)))
	}

	return c.JSON(fiber.Map{"received": true})
}

func handleCheckoutCompleted(event stripe.Event) error {
	if event.Data == nil {
		return errors.New("event carries no data object")
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return fmt.Errorf("decode checkout session: %w", err)
	}

	userIDStr := session.Metadata["userId"]
	creditsStr := session.Metadata["credits"]
	if userIDStr == "" {
		logger.Log.Error("no user ID in checkout session metadata", zap.String("session", session.ID))
		return nil
	}
	if creditsStr == "" {
		logger.Log.Error("no credits in checkout session metadata", zap.String("session", session.ID))
		return nil
	}

	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		logger.Log.Error("bad user ID in checkout session metadata",
			zap.String("session", session.ID), zap.String("userId", userIDStr))
		return nil
	}
	credits, err := strconv.Atoi(creditsStr)
	if err != nil || credits <= 0 {
		logger.Log.Error("bad credit count in checkout session metadata",
			zap.String("session", session.ID), zap.String("credits", creditsStr))
		return nil
	}

	purchase := &models.Purchase{
		UserID:           uint(userID),
		PlanType:         session.Metadata["planType"],
		CreditsPurchased: credits,
		AmountCents:      session.AmountTotal,
		Currency:         string(session.Currency),
		StripeSessionID:  session.ID,
		CustomerEmail:    session.CustomerEmail,
	}
	// The purchase insert and the credit grant are one transaction; the
	// unique session id makes replayed deliveries lose the insert and
	// grant nothing.
	if err := dataStore.RecordPurchaseAndCredit(purchase); err != nil {
		if errors.Is(err, store.ErrDuplicatePurchase) {
			logger.Log.Info("duplicate checkout session ignored", zap.String("session", session.ID))
			return nil
		}
		return fmt.Errorf("record purchase: %w", err)
	}

	logger.Log.Info("credit purchase processed",
		zap.Uint64("userID", userID), zap.Int("credits", credits))
	return nil
}
