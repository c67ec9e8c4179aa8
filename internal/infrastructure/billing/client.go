// Package billing creates customers and recurring subscriptions in the
// external payment service. Calls are bounded by a timeout and every failure
// collapses into domain.ErrBillingUnavailable; the registration saga treats
// billing as best-effort.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

const requestTimeout = 10 * time.Second

// Client is the HTTP ports.BillingGateway implementation.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type customerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	FiscalID   string `json:"fiscal_id"`
	PostalCode string `json:"postal_code,omitempty"`
	City       string `json:"city,omitempty"`
	Region     string `json:"region,omitempty"`
}

type customerResponse struct {
	ID string `json:"id"`
}

type subscriptionRequest struct {
	Customer    string `json:"customer"`
	Plan        string `json:"plan"`
	NextDueDate string `json:"next_due_date"`
}

type subscriptionResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	PaymentLink string `json:"payment_link"`
	NextDueDate string `json:"next_due_date"`
}

func (c *Client) CreateCustomer(ctx context.Context, input ports.CustomerInput) (string, error) {
	var out customerResponse
	err := c.post(ctx, "/customers", customerRequest{
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		FiscalID:   input.FiscalID,
		PostalCode: input.PostalCode,
		City:       input.City,
		Region:     input.Region,
	}, &out)
	if err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("billing: customer response missing id: %w", domain.ErrBillingUnavailable)
	}
	return out.ID, nil
}

func (c *Client) CreateSubscription(ctx context.Context, customerID string, input ports.SubscriptionInput) (*domain.BillingAccount, error) {
	var out subscriptionResponse
	err := c.post(ctx, "/subscriptions", subscriptionRequest{
		Customer:    customerID,
		Plan:        input.PlanID,
		NextDueDate: input.NextDueDate.UTC().Format("2006-01-02"),
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("billing: subscription response missing id: %w", domain.ErrBillingUnavailable)
	}

	account := &domain.BillingAccount{
		CustomerID:     customerID,
		SubscriptionID: out.ID,
		Status:         out.Status,
		PaymentLink:    out.PaymentLink,
	}
	if due, err := time.Parse("2006-01-02", out.NextDueDate); err == nil {
		account.NextDueDate = due
	}
	return account, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("billing: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("billing: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("billing: %v: %w", err, domain.ErrBillingUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("billing: %s returned %d: %w", path, resp.StatusCode, domain.ErrBillingUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("billing: decode response: %v: %w", err, domain.ErrBillingUnavailable)
	}
	return nil
}
