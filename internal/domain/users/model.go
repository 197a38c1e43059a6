package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the local identity record plus the mirrored Stripe billing state.
// The Stripe fields stay nil until the user goes through checkout; once
// StripeCustomerID is set it is the join key for every subscription event.
type User struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string `json:"name"`
	Email    string `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password string `gorm:"not null" json:"password"`

	StripeCustomerID         *string `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id" json:"stripeCustomerId"`
	StripeSubscriptionID     *string `gorm:"column:stripe_subscription_id" json:"stripeSubscriptionId"`
	StripeSubscriptionStatus *string `gorm:"column:stripe_subscription_status" json:"stripeSubscriptionStatus"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
