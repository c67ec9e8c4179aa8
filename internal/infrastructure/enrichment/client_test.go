package enrichment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/studiohub/onboarding-system/internal/core/domain"
)

func TestClientResolveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/json/01310100" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("token") != "tok-123" {
			t.Fatalf("missing token query param: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"address": "Avenida Paulista",
			"district": "Bela Vista",
			"city": "São Paulo",
			"state": "sp",
			"lat": "-23.561414",
			"lng": "-46.655881"
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	resolved, err := c.Resolve(context.Background(), "01310100")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved.Street != "Avenida Paulista" || resolved.City != "São Paulo" {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
	if resolved.Region != "SP" {
		t.Fatalf("state must be uppercased: %q", resolved.Region)
	}
	if resolved.Coordinates.Lat != -23.561414 || resolved.Coordinates.Lng != -46.655881 {
		t.Fatalf("coordinates not parsed: %+v", resolved.Coordinates)
	}
}

func TestClientResolveNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"CEP não encontrado"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	_, err := c.Resolve(context.Background(), "99999999")
	if !errors.Is(err, domain.ErrEnrichmentUnavailable) {
		t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
	}
}

func TestClientResolveMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	_, err := c.Resolve(context.Background(), "01310100")
	if !errors.Is(err, domain.ErrEnrichmentUnavailable) {
		t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
	}
}

func TestClientResolveTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, "tok-123")
	_, err := c.Resolve(context.Background(), "01310100")
	if !errors.Is(err, domain.ErrEnrichmentUnavailable) {
		t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// CachedResolver
// ---------------------------------------------------------------------------

type mapCache struct {
	entries map[string]*domain.ResolvedAddress
	getErr  error
	putErr  error
	puts    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]*domain.ResolvedAddress)}
}

func (c *mapCache) Get(_ context.Context, code string) (*domain.ResolvedAddress, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[code], nil
}

func (c *mapCache) Put(_ context.Context, code string, addr *domain.ResolvedAddress) error {
	c.puts++
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[code] = addr
	return nil
}

type countingResolver struct {
	resolved *domain.ResolvedAddress
	err      error
	calls    int
}

func (r *countingResolver) Resolve(context.Context, string) (*domain.ResolvedAddress, error) {
	r.calls++
	return r.resolved, r.err
}

func TestCachedResolverReadThrough(t *testing.T) {
	cache := newMapCache()
	next := &countingResolver{resolved: &domain.ResolvedAddress{City: "São Paulo"}}
	r := NewCachedResolver(next, cache, zerolog.Nop())

	for i := 0; i < 3; i++ {
		resolved, err := r.Resolve(context.Background(), "01310100")
		if err != nil {
			t.Fatalf("Resolve returned error: %v", err)
		}
		if resolved.City != "São Paulo" {
			t.Fatalf("unexpected resolution: %+v", resolved)
		}
	}

	if next.calls != 1 {
		t.Fatalf("expected a single upstream lookup, got %d", next.calls)
	}
	if cache.puts != 1 {
		t.Fatalf("expected a single write-back, got %d", cache.puts)
	}
}

func TestCachedResolverCacheErrorFallsThrough(t *testing.T) {
	cache := newMapCache()
	cache.getErr = errors.New("redis: connection refused")
	next := &countingResolver{resolved: &domain.ResolvedAddress{City: "São Paulo"}}
	r := NewCachedResolver(next, cache, zerolog.Nop())

	resolved, err := r.Resolve(context.Background(), "01310100")
	if err != nil {
		t.Fatalf("a cache outage must not fail the lookup: %v", err)
	}
	if resolved.City != "São Paulo" {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
	if next.calls != 1 {
		t.Fatalf("expected upstream lookup, got %d calls", next.calls)
	}
}

func TestCachedResolverUpstreamErrorPropagates(t *testing.T) {
	cache := newMapCache()
	next := &countingResolver{err: domain.ErrEnrichmentUnavailable}
	r := NewCachedResolver(next, cache, zerolog.Nop())

	_, err := r.Resolve(context.Background(), "01310100")
	if !errors.Is(err, domain.ErrEnrichmentUnavailable) {
		t.Fatalf("expected ErrEnrichmentUnavailable, got %v", err)
	}
	if cache.puts != 0 {
		t.Fatal("nothing may be cached on a failed lookup")
	}
}

func TestCachedResolverWriteBackFailureTolerated(t *testing.T) {
	cache := newMapCache()
	cache.putErr = errors.New("redis: OOM")
	next := &countingResolver{resolved: &domain.ResolvedAddress{City: "São Paulo"}}
	r := NewCachedResolver(next, cache, zerolog.Nop())

	if _, err := r.Resolve(context.Background(), "01310100"); err != nil {
		t.Fatalf("write-back failure must not fail the lookup: %v", err)
	}
}
