// Package payments wraps the Stripe side of the subscription lifecycle:
// customer directory, hosted checkout, self-service billing portal and
// subscription cancellation. Webhook reconciliation lives in stripewebhook.
package payments

import (
	"errors"

	"github.com/MandaAlmeida/listener-pay/config"
	"github.com/MandaAlmeida/listener-pay/internal/apperr"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

// Service holds the one long-lived Stripe client for the process. All money
// movement stays on Stripe's side; this service only initiates provider
// actions and reads back identifiers.
type Service struct {
	sc    *client.API
	store users.Store
	cfg   config.Config
}

func NewService(sc *client.API, store users.Store, cfg config.Config) *Service {
	return &Service{sc: sc, store: store, cfg: cfg}
}

// FindOrCreateCustomer looks up a Stripe customer by email, first match wins.
// At most one customer is created per call; nothing is persisted locally.
func (s *Service) FindOrCreateCustomer(email, name string) (*stripe.Customer, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Limit = stripe.Int64(1)

	it := s.sc.Customers.List(listParams)
	if it.Next() {
		return it.Customer(), nil
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	createParams := &stripe.CustomerParams{Email: stripe.String(email)}
	if name != "" {
		createParams.Name = stripe.String(name)
	}
	return s.sc.Customers.New(createParams)
}

// GenerateCheckout opens a subscription-mode checkout session for the fixed
// configured price. The user id rides along as client_reference_id; it is the
// only link back to the local record when checkout.session.completed arrives.
func (s *Service) GenerateCheckout(userID, email string) (string, error) {
	cus, err := s.FindOrCreateCustomer(email, "")
	if err != nil {
		return "", err
	}

	session, err := s.sc.CheckoutSessions.New(&stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID:  stripe.String(userID),
		Customer:           stripe.String(cus.ID),
		SuccessURL:         stripe.String(s.cfg.CheckoutSuccessURL),
		CancelURL:          stripe.String(s.cfg.CheckoutCancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(s.cfg.StripePriceID), Quantity: stripe.Int64(1)},
		},
	})
	if err != nil {
		return "", err
	}
	if session == nil || session.URL == "" {
		return "", apperr.Conflict("checkout session could not be established")
	}

	return session.URL, nil
}

// CreatePortalSession opens the Stripe billing portal for an existing
// customer. A user that never checked out has no customer id yet, so there is
// nothing to open a portal for.
func (s *Service) CreatePortalSession(userID string) (*stripe.BillingPortalSession, error) {
	user, err := s.store.FindByID(userID)
	if errors.Is(err, users.ErrNotFound) {
		return nil, apperr.Conflict("user %s not found", userID)
	}
	if err != nil {
		return nil, err
	}

	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return nil, apperr.Conflict("user %s has no billing customer yet", userID)
	}

	return s.sc.BillingPortalSessions.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(s.cfg.PortalReturnURL),
	})
}

// CancelSubscription flags the subscription to end at the period boundary
// instead of cutting it off immediately. The eventual
// customer.subscription.deleted event clears the mirrored status.
func (s *Service) CancelSubscription(subscriptionID string) (*stripe.Subscription, error) {
	return s.sc.Subscriptions.Update(subscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
}
