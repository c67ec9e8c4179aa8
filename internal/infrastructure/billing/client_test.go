package billing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studiohub/onboarding-system/internal/core/domain"
	"github.com/studiohub/onboarding-system/internal/core/ports"
)

func TestCreateCustomerSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/customers" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key-1" {
			t.Fatalf("missing api key: %q", r.Header.Get("Authorization"))
		}

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["fiscal_id"] != "12345678000199" {
			t.Fatalf("unexpected fiscal id: %v", body["fiscal_id"])
		}

		_, _ = w.Write([]byte(`{"id":"cus-1"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	id, err := c.CreateCustomer(context.Background(), ports.CustomerInput{
		Name:     "Estudio Som",
		Email:    "contato@som.example",
		FiscalID: "12345678000199",
	})
	if err != nil {
		t.Fatalf("CreateCustomer returned error: %v", err)
	}
	if id != "cus-1" {
		t.Fatalf("unexpected customer id: %q", id)
	}
}

func TestCreateCustomerNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"description":"invalid fiscal id"}]}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	_, err := c.CreateCustomer(context.Background(), ports.CustomerInput{Name: "x"})
	if !errors.Is(err, domain.ErrBillingUnavailable) {
		t.Fatalf("expected ErrBillingUnavailable, got %v", err)
	}
}

func TestCreateSubscriptionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/subscriptions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["customer"] != "cus-1" || body["plan"] != "studio-monthly" {
			t.Fatalf("unexpected subscription request: %v", body)
		}
		if body["next_due_date"] != "2026-09-08" {
			t.Fatalf("due date must be formatted as a date: %v", body["next_due_date"])
		}

		_, _ = w.Write([]byte(`{
			"id": "sub-1",
			"status": "trial",
			"payment_link": "https://pay.example/sub-1",
			"next_due_date": "2026-09-08"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	due := time.Date(2026, 9, 8, 11, 30, 0, 0, time.UTC)
	account, err := c.CreateSubscription(context.Background(), "cus-1", ports.SubscriptionInput{
		PlanID:      "studio-monthly",
		NextDueDate: due,
	})
	if err != nil {
		t.Fatalf("CreateSubscription returned error: %v", err)
	}
	if account.CustomerID != "cus-1" || account.SubscriptionID != "sub-1" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.Status != "trial" || account.PaymentLink != "https://pay.example/sub-1" {
		t.Fatalf("unexpected account fields: %+v", account)
	}
	if account.NextDueDate != time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected due date: %v", account.NextDueDate)
	}
}

func TestCreateSubscriptionOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "key-1")
	_, err := c.CreateSubscription(context.Background(), "cus-1", ports.SubscriptionInput{PlanID: "p"})
	if !errors.Is(err, domain.ErrBillingUnavailable) {
		t.Fatalf("expected ErrBillingUnavailable, got %v", err)
	}
}

func TestCreateCustomerMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key-1")
	_, err := c.CreateCustomer(context.Background(), ports.CustomerInput{Name: "x"})
	if !errors.Is(err, domain.ErrBillingUnavailable) {
		t.Fatalf("expected ErrBillingUnavailable, got %v", err)
	}
}
