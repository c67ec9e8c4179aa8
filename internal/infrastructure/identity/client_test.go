package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

func TestCreateIdentitySuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/admin/users" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		// The service must authenticate with a service-role token.
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			t.Fatalf("missing bearer token: %q", auth)
		}
		token, err := jwt.Parse(strings.TrimPrefix(auth, "Bearer "), func(*jwt.Token) (any, error) {
			return []byte("shh"), nil
		})
		if err != nil || !token.Valid {
			t.Fatalf("invalid service token: %v", err)
		}
		claims := token.Claims.(jwt.MapClaims)
		if claims["role"] != "service_role" {
			t.Fatalf("expected service_role claim, got %v", claims["role"])
		}

		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ana@example.com" {
			t.Fatalf("unexpected email: %v", body["email"])
		}
		if body["email_confirm"] != true {
			t.Fatal("identities must be created pre-confirmed")
		}

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"idn-1","email":"ana@example.com"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "shh")
	identity, err := c.CreateIdentity(context.Background(), "ana@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("CreateIdentity returned error: %v", err)
	}
	if identity.ID != "idn-1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestCreateIdentityDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"email already registered"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "shh")
	_, err := c.CreateIdentity(context.Background(), "ana@example.com", "s3cret-pass")
	if !errors.Is(err, domain.ErrIdentityExists) {
		t.Fatalf("expected ErrIdentityExists, got %v", err)
	}
}

func TestCreateIdentityMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"email":"ana@example.com"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "shh")
	if _, err := c.CreateIdentity(context.Background(), "ana@example.com", "s3cret-pass"); err == nil {
		t.Fatal("a response without an id must be an error")
	}
}

func TestDeleteIdentityIdempotent(t *testing.T) {
	var deletes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/admin/users/idn-1" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		deletes++
		if deletes == 1 {
			w.WriteHeader(http.StatusOK)
			return
		}
		// Already gone on the retry.
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "shh")
	if err := c.DeleteIdentity(context.Background(), "idn-1"); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	if err := c.DeleteIdentity(context.Background(), "idn-1"); err != nil {
		t.Fatalf("deleting an absent identity must succeed: %v", err)
	}
}

func TestDeleteIdentityServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "shh")
	if err := c.DeleteIdentity(context.Background(), "idn-1"); err == nil {
		t.Fatal("a 500 from the identity service must surface as an error")
	}
}
