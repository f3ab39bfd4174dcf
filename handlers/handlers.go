package handler

import (
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/youngamerican68/Property-Perfect/ai"
	"github.com/youngamerican68/Property-Perfect/billing"
	"github.com/youngamerican68/Property-Perfect/store"
)

// Runtime dependencies, wired once from main (or from tests).
var (
	dataStore     store.Store
	imageEditor   ai.Editor
	billingClient *billing.Client

	// apiDisabled is the kill-switch: seeded from DISABLE_AI_API at
	// startup, flipped by the admin toggle, read on every enhance request.
	apiDisabled atomic.Bool

	userDailyLimit   int
	globalDailyLimit int
	enhanceTimeout   time.Duration
)

type Options struct {
	Disabled         bool
	UserDailyLimit   int
	GlobalDailyLimit int
	EnhanceTimeout   time.Duration
}

// Setup wires the handler package dependencies.
func Setup(s store.Store, editor ai.Editor, b *billing.Client, opts Options) {
	dataStore = s
	imageEditor = editor
	billingClient = b

	apiDisabled.Store(opts.Disabled)

	userDailyLimit = opts.UserDailyLimit
	if userDailyLimit <= 0 {
		userDailyLimit = 10
	}
	globalDailyLimit = opts.GlobalDailyLimit
	if globalDailyLimit <= 0 {
		globalDailyLimit = 50
	}
	enhanceTimeout = opts.EnhanceTimeout
	if enhanceTimeout <= 0 {
		enhanceTimeout = 60 * time.Second
	}
}

func Hello(c *fiber.Ctx) error {
	return c.SendString("Hello, World!")
}

// startOfToday is the UTC midnight boundary used by daily quotas and stats.
func startOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
