package stripewebhook

import (
	"errors"

	"github.com/MandaAlmeida/listener-pay/internal/apperr"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleCheckoutCompleted records the customer and subscription ids on the
// user referenced by the session's client_reference_id. Sessions that are not
// yet complete are ignored; Stripe sends a follow-up delivery once they are.
func (h *Handler) handleCheckoutCompleted(session *stripe.CheckoutSession) error {
	if session.Status != stripe.CheckoutSessionStatusComplete {
		return nil
	}

	clientRef := session.ClientReferenceID

	var subscriptionID, customerID string
	if session.Subscription != nil {
		subscriptionID = session.Subscription.ID
	}
	if session.Customer != nil {
		customerID = session.Customer.ID
	}

	if clientRef == "" || subscriptionID == "" || customerID == "" {
		return apperr.Conflict("checkout session missing client_reference_id, subscription or customer")
	}

	user, err := h.store.FindByID(clientRef)
	if errors.Is(err, users.ErrNotFound) {
		return apperr.Conflict("no user for client_reference_id %s", clientRef)
	}
	if err != nil {
		return err
	}

	return h.store.Update(user.ID, map[string]interface{}{
		"stripe_customer_id":     customerID,
		"stripe_subscription_id": subscriptionID,
	})
}
