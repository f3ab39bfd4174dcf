package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	handler "github.com/youngamerican68/Property-Perfect/handlers"
)

func checkoutCompletedEvent(sessionID string, metadata map[string]string) map[string]any {
	object := map[string]any{
		"id":             sessionID,
		"amount_total":   4900,
		"currency":       "usd",
		"customer_email": "agent@example.com",
	}
	if metadata != nil {
		object["metadata"] = metadata
	}
	return map[string]any{
		"id":   "evt_1",
		"type": "checkout.session.completed",
		"data": map[string]any{"object": object},
	}
}

func TestWebhookCheckoutCompletedGrantsCredits(t *testing.T) {
	editor := &fakeEditor{}
	ms, app := newTestApp(t, editor, handler.Options{})
	user, _ := seedUser(t, ms, 7, 0)

	event := checkoutCompletedEvent("cs_test_1", map[string]string{
		"userId":   "7",
		"planType": "Professional",
		"credits":  "75",
	})

	resp, body := doJSON(t, app, http.MethodPost, "/api/stripe-webhook", "", event)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["received"])

	balance, err := ms.GetBalance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, balance)

	seen, err := ms.HasPurchase("cs_test_1")
	require.NoError(t, err)
	assert.True(t, seen)

	revenue, err := ms.TotalRevenueCents()
	require.NoError(t, err)
	assert.Equal(t, int64(4900), revenue)
}

func TestWebhookReplayDoesNotDoubleCredit(t *testing.T) {
	editor := &fakeEditor{}
	ms, app := newTestApp(t, editor, handler.Options{})
	user, _ := seedUser(t, ms, 7, 0)

	event := checkoutCompletedEvent("cs_test_replay", map[string]string{
		"userId":  "7",
		"credits": "25",
	})

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/stripe-webhook", "", event)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	balance, err := ms.GetBalance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, balance, "replayed session id must be a no-op")
}

func TestWebhookMissingMetadataIsAcknowledged(t *testing.T) {
	editor := &fakeEditor{}
	ms, app := newTestApp(t, editor, handler.Options{})
	user, _ := seedUser(t, ms, 7, 0)

	event := checkoutCompletedEvent("cs_test_nometa", nil)

	resp, body := doJSON(t, app, http.MethodPost, "/api/stripe-webhook", "", event)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["received"])

	balance, err := ms.GetBalance(user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)

	seen, err := ms.HasPurchase("cs_test_nometa")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestWebhookUnknownUserFails(t *testing.T) {
	editor := &fakeEditor{}
	ms, app := newTestApp(t, editor, handler.Options{})

	event := checkoutCompletedEvent("cs_test_ghost", map[string]string{
		"userId":  "999",
		"credits": "25",
	})

	// the grant cannot be applied, so Stripe should retry
	resp, _ := doJSON(t, app, http.MethodPost, "/api/stripe-webhook", "", event)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// nothing was recorded, so the retry is not treated as a replay
	seen, err := ms.HasPurchase("cs_test_ghost")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestWebhookOtherEventsAcknowledged(t *testing.T) {
	editor := &fakeEditor{}
	ms, app := newTestApp(t, editor, handler.Options{})
	user, _ := seedUser(t, ms, 7, 0)

	for _, eventType := range []string{
		"payment_intent.succeeded",
		"customer.subscription.deleted",
		"invoice.payment_failed",
		"charge.refunded",
	} {
		event := map[string]any{
			"id":   "evt_x",
			"type": eventType,
			"data": map[string]any{"object": map[string]any{}},
		}
		resp, body := doJSON(t, app, http.MethodPost, "/api/stripe-webhook", "", event)
		assert.Equal(t, http.StatusOK, resp.StatusCode, eventType)
		assert.Equal(t, true, body["received"], eventType)
	}

	balance, err := ms.GetBalance(user.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestWebhookBadPayload(t *testing.T) {
	editor := &fakeEditor{}
	_, app := newTestApp(t, editor, handler.Options{})

	// a bare JSON string cannot unmarshal into an event
	resp, _ := doJSON(t, app, http.MethodPost, "/api/stripe-webhook", "", "not-an-event")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
