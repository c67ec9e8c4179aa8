package ports

import (
	"context"
	"time"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

// CustomerInput carries the profile attributes the billing service needs to
// create a customer record. The address fields reflect enrichment when it
// succeeded, since the saga resolves the address before billing runs.
type CustomerInput struct {
	Name       string
	Email      string
	Phone      string
	FiscalID   string
	PostalCode string
	City       string
	Region     string
}

// SubscriptionInput configures the recurring subscription for a new customer.
type SubscriptionInput struct {
	PlanID      string
	NextDueDate time.Time
}

// BillingGateway creates billing customers and recurring subscriptions.
// Implementations apply a bounded timeout and return
// domain.ErrBillingUnavailable on any failure; the saga never aborts on it.
type BillingGateway interface {
	CreateCustomer(ctx context.Context, input CustomerInput) (string, error)
	CreateSubscription(ctx context.Context, customerID string, input SubscriptionInput) (*domain.BillingAccount, error)
}
