package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tryonlabs/fitpassport/internal/config"
)

func cacheCtx(t *testing.T, target, uid string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/photos")
	if uid != "" {
		c.Set("user_id", uid)
	}
	return c
}

func TestCacheKeySeparatesUsers(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "user_route_query"}

	alice := cacheKeyFrom(cfg, cacheCtx(t, "/v1/photos", "alice-uuid"))
	bob := cacheKeyFrom(cfg, cacheCtx(t, "/v1/photos", "bob-uuid"))
	anon := cacheKeyFrom(cfg, cacheCtx(t, "/v1/photos", ""))

	if alice == bob {
		t.Fatal("two users share a cache key for an owner-scoped route")
	}
	if alice == anon || bob == anon {
		t.Fatal("authenticated and anonymous requests share a cache key")
	}

	again := cacheKeyFrom(cfg, cacheCtx(t, "/v1/photos", "alice-uuid"))
	if alice != again {
		t.Fatal("cache key not stable for the same user and route")
	}
}

func TestCacheKeyRouteStrategyIgnoresUser(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	a := cacheKeyFrom(cfg, cacheCtx(t, "/v1/photos", "alice-uuid"))
	b := cacheKeyFrom(cfg, cacheCtx(t, "/v1/photos", "bob-uuid"))
	if a != b {
		t.Fatal("route strategy should not mix in the user")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	body := []byte(`{"ok":true}`)

	enc, err := encodePayload(http.StatusCreated, hdr, body)
	if err != nil {
		t.Fatalf("encodePayload: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(enc)
	if !ok {
		t.Fatal("decodePayload rejected its own encoding")
	}
	if status != http.StatusCreated {
		t.Errorf("status = %d, want 201", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", gotHdr.Get("Content-Type"))
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q, want %q", gotBody, body)
	}
}

func TestOversizedResponseIsNotCacheable(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 10}

	body := []byte(`{"items":["a","b","c"]}`) // 24 bytes, over the 10-byte limit
	if _, err := cw.Write(body); err != nil {
		t.Fatalf("write through captureWriter: %v", err)
	}

	// The client must always get the full body even when capture stops.
	if got := rec.Body.Len(); got != len(body) {
		t.Fatalf("client received %d bytes, want %d", got, len(body))
	}
	if cw.buf.Len() != 10 {
		t.Fatalf("capture buffer holds %d bytes, want 10", cw.buf.Len())
	}
	// A truncated capture must never be stored; a HIT would serve a
	// cut-off payload.
	if cacheable(cw, 10) {
		t.Fatal("truncated capture reported as cacheable")
	}
}

func TestSmallResponseIsCacheable(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 1024}
	if _, err := cw.Write([]byte(`{"ok":true}`)); err != nil {
		t.Fatalf("write through captureWriter: %v", err)
	}
	if !cacheable(cw, 1024) {
		t.Fatal("in-limit capture reported as uncacheable")
	}
	if !cacheable(cw, 0) {
		t.Fatal("zero limit should disable the size check")
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	if _, _, _, ok := decodePayload([]byte("short")); ok {
		t.Fatal("truncated payload accepted")
	}
	if _, _, _, ok := decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99, 'x'}); ok {
		t.Fatal("payload with oversized header length accepted")
	}
}
