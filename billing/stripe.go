package billing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload   = errors.New("invalid webhook payload")
	ErrUnknownPlan      = errors.New("invalid plan type")
)

// Plan is one fixed credit pack. Prices are whole dollars.
type Plan struct {
	Credits  int
	PriceUSD int64
}

// Plans is the only pricing accepted by checkout; the client-supplied
// credits/price pair must match exactly.
var Plans = map[string]Plan{
	"Starter":      {Credits: 25, PriceUSD: 19},
	"Professional": {Credits: 75, PriceUSD: 49},
	"Agency":       {Credits: 300, PriceUSD: 149},
}

// Client wraps the Stripe API for checkout sessions and webhook parsing.
type Client struct {
	webhookSecret string
}

func New(secretKey, webhookSecret string) *Client {
	stripe.Key = secretKey
	return &Client{webhookSecret: webhookSecret}
}

// CheckoutRequest describes a credit pack purchase for one user.
type CheckoutRequest struct {
	UserID    uint
	UserEmail string
	PlanType  string
	Origin    string
}

// CreateCheckoutSession starts a hosted Stripe Checkout session for a credit
// pack. Metadata carries everything the webhook needs to grant credits.
func (c *Client) CreateCheckoutSession(req CheckoutRequest) (*stripe.CheckoutSession, error) {
	plan, ok := Plans[req.PlanType]
	if !ok {
		return nil, ErrUnknownPlan
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.Origin + "/dashboard?success=true&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(req.Origin + "/pricing?canceled=true"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("PropertyPerfect %s Pack", req.PlanType)),
						Description: stripe.String(fmt.Sprintf("%d photo enhancement credits with LightLab relighting", plan.Credits)),
					},
					UnitAmount: stripe.Int64(plan.PriceUSD * 100),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"userId":    fmt.Sprintf("%d", req.UserID),
			"userEmail": req.UserEmail,
			"planType":  req.PlanType,
			"credits":   fmt.Sprintf("%d", plan.Credits),
			"price":     fmt.Sprintf("%d", plan.PriceUSD),
		},
	}
	if req.UserEmail != "" {
		params.CustomerEmail = stripe.String(req.UserEmail)
	}

	return checkoutsession.New(params)
}

// ParseEvent verifies and decodes a webhook payload. Without a signing
// secret configured the raw JSON is trusted; that path is for development
// only and must not be enabled in production.
func (c *Client) ParseEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	if c.webhookSecret != "" {
		// Endpoints stay pinned to the API version they were created with,
		// which rarely matches the SDK's pinned version; the signature is
		// the authenticity check, not the version field.
		event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		}
		return event, nil
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return event, nil
}
