package users

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by the store on any lookup miss. Callers classify
// it into the apperr taxonomy; the store stays transport-agnostic.
var ErrNotFound = errors.New("user not found")

// Store is the persistence seam for User records. Update takes a column map
// so reconciliation handlers can set exactly the fields they own; a nil value
// clears the column.
type Store interface {
	Create(user *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByStripeCustomerID(customerID string) (*User, error)
	Update(id string, updates map[string]interface{}) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(user *User) error {
	return s.db.Create(user).Error
}

func (s *GormStore) FindByID(id string) (*User, error) {
	return s.first("id = ?", id)
}

func (s *GormStore) FindByEmail(email string) (*User, error) {
	return s.first("email = ?", email)
}

func (s *GormStore) FindByStripeCustomerID(customerID string) (*User, error) {
	return s.first("stripe_customer_id = ?", customerID)
}

func (s *GormStore) Update(id string, updates map[string]interface{}) error {
	return s.db.Model(&User{}).Where("id = ?", id).Updates(updates).Error
}

func (s *GormStore) first(query string, arg string) (*User, error) {
	var user User
	if err := s.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
