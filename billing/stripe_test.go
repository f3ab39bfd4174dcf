package billing_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youngamerican68/Property-Perfect/billing"
)

// The api_version deliberately differs from the SDK's pinned version:
// endpoints keep the version they were created with.
const eventPayload = `{"id":"evt_1","api_version":"2023-10-16","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`

// signPayload builds a Stripe-Signature header the way Stripe does: a
// timestamp and an HMAC-SHA256 of "<timestamp>.<payload>".
func signPayload(secret, payload string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + payload))
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestParseEventVerifiesSignature(t *testing.T) {
	client := billing.New("sk_test_key", "whsec_test")

	header := signPayload("whsec_test", eventPayload, time.Now())
	event, err := client.ParseEvent([]byte(eventPayload), header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "checkout.session.completed", string(event.Type))
}

func TestParseEventRejectsBadSignature(t *testing.T) {
	client := billing.New("sk_test_key", "whsec_test")

	header := signPayload("whsec_other", eventPayload, time.Now())
	_, err := client.ParseEvent([]byte(eventPayload), header)
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)

	_, err = client.ParseEvent([]byte(eventPayload), "")
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)
}

func TestParseEventRejectsStaleTimestamp(t *testing.T) {
	client := billing.New("sk_test_key", "whsec_test")

	header := signPayload("whsec_test", eventPayload, time.Now().Add(-time.Hour))
	_, err := client.ParseEvent([]byte(eventPayload), header)
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)
}

func TestParseEventUnsignedDevMode(t *testing.T) {
	client := billing.New("sk_test_key", "")

	event, err := client.ParseEvent([]byte(eventPayload), "")
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)

	_, err = client.ParseEvent([]byte("{broken"), "")
	assert.ErrorIs(t, err, billing.ErrInvalidPayload)
}

func TestCreateCheckoutSessionUnknownPlan(t *testing.T) {
	client := billing.New("sk_test_key", "")

	_, err := client.CreateCheckoutSession(billing.CheckoutRequest{
		UserID:   1,
		PlanType: "Platinum",
		Origin:   "http://localhost:3000",
	})
	assert.ErrorIs(t, err, billing.ErrUnknownPlan)
}

func TestPlanTable(t *testing.T) {
	assert.Equal(t, billing.Plan{Credits: 25, PriceUSD: 19}, billing.Plans["Starter"])
	assert.Equal(t, billing.Plan{Credits: 75, PriceUSD: 49}, billing.Plans["Professional"])
	assert.Equal(t, billing.Plan{Credits: 300, PriceUSD: 149}, billing.Plans["Agency"])
}
