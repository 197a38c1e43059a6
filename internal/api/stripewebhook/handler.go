// Package stripewebhook reconciles provider-reported subscription state into
// the local user records. Stripe delivers events at-least-once and possibly
// out of order; every handler only ever sets fields to the values carried by
// the event, so redelivery converges on the same record state.
package stripewebhook

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/MandaAlmeida/listener-pay/internal/apperr"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = 65536

type Handler struct {
	store  users.Store
	secret string
}

func NewHandler(store users.Store, webhookSecret string) *Handler {
	return &Handler{store: store, secret: webhookSecret}
}

// HandleWebhook verifies the delivery against the raw body, decodes the
// type-specific payload and dispatches to one reconciliation handler.
// Signature verification needs the exact undecoded bytes, so this route must
// never sit behind body-rewriting middleware.
func (h *Handler) HandleWebhook(c *gin.Context) {
	event, err := h.verifyEvent(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Webhook Error: %s", err.Error())
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.String(http.StatusBadRequest, "Webhook Error: failed to parse checkout session")
			return
		}
		h.acknowledge(c, h.handleCheckoutCompleted(&session))

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.String(http.StatusBadRequest, "Webhook Error: failed to parse subscription")
			return
		}
		h.acknowledge(c, h.handleSubscriptionUpserted(&sub))

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.String(http.StatusBadRequest, "Webhook Error: failed to parse subscription")
			return
		}
		h.acknowledge(c, h.handleSubscriptionDeleted(&sub))

	default:
		log.Printf("Unhandled event type %s", event.Type)
		c.Status(http.StatusOK)
	}
}

// acknowledge maps a reconciliation result onto the response Stripe sees.
// A ConflictError is a permanent condition (malformed payload, user gone);
// retrying the same delivery cannot fix it, so it is logged and acknowledged
// with 200 to stop the retry loop. Anything else is transient (storage) and
// gets a 500 so Stripe redelivers.
func (h *Handler) acknowledge(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.Status(http.StatusOK)
	case apperr.IsConflict(err):
		log.Printf("webhook reconciliation dropped: %v", err)
		c.Status(http.StatusOK)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// verifyEvent authenticates the delivery against the raw body and the shared
// secret. Any failure here means the delivery never came from Stripe or was
// mangled in transit; the delivering party retries, this service does not.
func (h *Handler) verifyEvent(c *gin.Context) (stripe.Event, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return stripe.Event{}, apperr.Verification("reading request body: %v", err)
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return stripe.Event{}, apperr.Verification("%v", err)
	}
	return event, nil
}
