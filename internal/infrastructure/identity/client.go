// Package identity provisions principals through the identity service's admin
// API. Requests authenticate with a short-lived HS256 service-role token
// signed with the shared service secret.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

const (
	requestTimeout  = 10 * time.Second
	serviceTokenTTL = 5 * time.Minute
)

// Client is the HTTP ports.IdentityProvider implementation.
type Client struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewClient(baseURL, serviceSecret string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		secret:  serviceSecret,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type createUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmailConfirm bool   `json:"email_confirm"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// CreateIdentity provisions a confirmed principal. The identity service's own
// duplicate check surfaces as domain.ErrIdentityExists.
func (c *Client) CreateIdentity(ctx context.Context, email, password string) (*domain.Identity, error) {
	payload, err := json.Marshal(createUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
	})
	if err != nil {
		return nil, fmt.Errorf("encode create user: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/admin/users", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity {
		return nil, domain.ErrIdentityExists
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("identity service: create user returned %d: %s", resp.StatusCode, readMessage(resp))
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("identity service: decode user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity service: response missing user id")
	}

	return &domain.Identity{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// DeleteIdentity removes a principal. A 404 means the principal is already
// gone and is treated as success so compensations can be retried.
func (c *Client) DeleteIdentity(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/admin/users/"+id, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("identity service: delete user returned %d: %s", resp.StatusCode, readMessage(resp))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	token, err := c.serviceToken()
	if err != nil {
		return nil, fmt.Errorf("sign service token: %w", err)
	}

	var body *bytes.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service: %w", err)
	}
	return resp, nil
}

// serviceToken mints the short-lived service-role token the admin API expects.
func (c *Client) serviceToken() (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"role": "service_role",
		"iss":  "onboarding",
		"iat":  now.Unix(),
		"exp":  now.Add(serviceTokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.secret))
}

func readMessage(resp *http.Response) string {
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Message == "" {
		return "no error detail"
	}
	return e.Message
}
