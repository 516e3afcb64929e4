package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func TestParseRequestAt(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)

	got, err := parseRequestAt(strconv.FormatInt(now.Unix(), 10))
	if err != nil {
		t.Fatalf("epoch seconds: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("epoch seconds = %v, want %v", got, now)
	}

	got, err = parseRequestAt(strconv.FormatInt(now.UnixMilli(), 10))
	if err != nil {
		t.Fatalf("epoch ms: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("epoch ms = %v, want %v", got, now)
	}

	got, err = parseRequestAt(now.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if !got.Equal(now) {
		t.Fatalf("rfc3339 = %v, want %v", got, now)
	}

	for _, bad := range []string{"", "2025-09-05 10:00:00", "yesterday"} {
		if _, err := parseRequestAt(bad); err == nil {
			t.Fatalf("parseRequestAt(%q) succeeded, want error", bad)
		}
	}
}

func TestRequestID(t *testing.T) {
	mk := func(v string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if v != "" {
			req.Header.Set("X-Request-Id", v)
		}
		return req
	}

	if _, err := requestID(mk("")); err == nil {
		t.Fatal("missing id must fail")
	}
	if _, err := requestID(mk("short")); err == nil {
		t.Fatal("malformed id must fail")
	}
	if got, err := requestID(mk("AAAABBBBCCCCDDDDEEEEFFFF00001111")); err != nil || got != "aaaabbbbccccddddeeeeffff00001111" {
		t.Fatalf("hex32 id: got %q err %v", got, err)
	}
	if _, err := requestID(mk("123e4567-e89b-12d3-a456-426614174000")); err != nil {
		t.Fatalf("uuid id: %v", err)
	}
}

func TestBuildKey(t *testing.T) {
	key := buildKey(http.MethodPost, "/loans/:loan_id/payments", "7", "abc")
	want := "idemp:post:/loans/:loan_id/payments:7:abc"
	if key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}
}
