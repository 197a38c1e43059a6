package stripewebhook

import (
	"errors"

	"github.com/MandaAlmeida/listener-pay/internal/apperr"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleSubscriptionUpserted covers customer.subscription.created and
// customer.subscription.updated. Subscription events carry no
// client_reference_id, so the customer id is the only join key back to the
// local record.
func (h *Handler) handleSubscriptionUpserted(sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		return apperr.Conflict("subscription event missing customer")
	}
	customerID := sub.Customer.ID

	user, err := h.store.FindByStripeCustomerID(customerID)
	if errors.Is(err, users.ErrNotFound) {
		return apperr.Conflict("no user for stripe customer %s", customerID)
	}
	if err != nil {
		return err
	}

	return h.store.Update(user.ID, map[string]interface{}{
		"stripe_customer_id":         customerID,
		"stripe_subscription_id":     sub.ID,
		"stripe_subscription_status": string(sub.Status),
	})
}
