package aade

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	if _, err := NewClient("", "key", time.Second); err == nil {
		t.Error("NewClient accepted an empty base url")
	}
	c, err := NewClient("https://api.example/", "key", 0)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if c.BaseURL() != "https://api.example" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
}

func TestClient_VATInfo(t *testing.T) {
	var gotPath, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get(SubscriptionKeyHeader)
		w.Write([]byte(`{"afm":"123456789","name":"EXAMPLE AE","active":true}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "sub-key", time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	result, err := c.VATInfo(context.Background(), "123456789")
	if err != nil {
		t.Fatalf("VATInfo failed: %v", err)
	}
	if gotPath != "/vat/123456789" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "sub-key" {
		t.Errorf("subscription key header = %q", gotKey)
	}
	info, ok := result.(map[string]any)
	if !ok || info["name"] != "EXAMPLE AE" {
		t.Errorf("result = %v", result)
	}
}

func TestClient_VATInfoRejectsBadAFM(t *testing.T) {
	c, err := NewClient("https://api.example", "", time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	for _, afm := range []string{"", "12345678", "1234567890", "abcdefghi"} {
		if _, err := c.VATInfo(context.Background(), afm); err == nil {
			t.Errorf("VATInfo(%q) accepted a malformed tax number", afm)
		}
	}
}

func TestClient_VATInfoUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	_, err = c.VATInfo(context.Background(), "123456789")
	if err == nil || !strings.Contains(err.Error(), "429") {
		t.Errorf("VATInfo = %v, want status error", err)
	}
}

func TestTools(t *testing.T) {
	c, err := NewClient("https://api.example", "", time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	ts := Tools(c, time.Hour)
	if len(ts) != 1 {
		t.Fatalf("got %d tools, want 1", len(ts))
	}
	if err := ts[0].Validate(); err != nil {
		t.Errorf("tool invalid: %v", err)
	}
	if ts[0].Source != Source || !ts[0].Cacheable {
		t.Errorf("tool = %+v", ts[0])
	}
	if _, err := ts[0].Handler(context.Background(), map[string]any{}); err == nil {
		t.Error("handler accepted a call without its required argument")
	}
}
