package users

import (
	"errors"

	"github.com/MandaAlmeida/listener-pay/internal/api/payments"
	"github.com/MandaAlmeida/listener-pay/internal/apperr"
	"github.com/MandaAlmeida/listener-pay/internal/domain/users"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	store    users.Store
	payments *payments.Service
}

func NewService(store users.Store, payments *payments.Service) *Service {
	return &Service{store: store, payments: payments}
}

// Register hashes the password, creates the Stripe customer first and then
// persists the user carrying that customer id. The email pre-check catches
// the common duplicate case early; the unique index remains the backstop for
// two registrations racing on the same email.
func (s *Service) Register(name, email, password string) (*users.User, error) {
	_, err := s.store.FindByEmail(email)
	if err == nil {
		return nil, apperr.Conflict("email %s is already registered", email)
	}
	if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	cus, err := s.payments.FindOrCreateCustomer(email, name)
	if err != nil {
		return nil, err
	}

	customerID := cus.ID
	user := &users.User{
		Name:             name,
		Email:            email,
		Password:         string(hashed),
		StripeCustomerID: &customerID,
	}

	if err := s.store.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email %s is already registered", email)
		}
		return nil, err
	}

	return user, nil
}

// Login confirms the credentials and nothing more; session issuance is the
// caller's concern. The same UnauthorizedError covers unknown email and wrong
// password so the response does not reveal which one failed.
func (s *Service) Login(email, password string) (bool, error) {
	user, err := s.store.FindByEmail(email)
	if errors.Is(err, users.ErrNotFound) {
		return false, apperr.Unauthorized("incorrect email or password")
	}
	if err != nil {
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return false, apperr.Unauthorized("incorrect email or password")
	}

	return true, nil
}

func (s *Service) FetchByID(id string) (*users.User, error) {
	user, err := s.store.FindByID(id)
	if errors.Is(err, users.ErrNotFound) {
		return nil, apperr.NotFound("user %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
