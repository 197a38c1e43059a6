package stripewebhook

import (
	"errors"

	"github.com/MandaAlmeida/listener-pay/internal/apperr"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleSubscriptionDeleted clears the mirrored status. The customer and
// subscription ids stay in place so the user can resubscribe under the same
// Stripe customer.
func (h *Handler) handleSubscriptionDeleted(sub *stripe.Subscription) error {
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
		"stripe_subscription_status": nil,
	})
}
