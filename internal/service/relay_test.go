package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestForwardReturnsParsedJSONBody(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected json content type, got %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accepted":true}`))
	}))
	defer server.Close()

	relay := NewWebhookRelay()
	result, err := relay.Forward(context.Background(), server.URL, map[string]any{"hello": "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.StatusCode != http.StatusOK || !result.Accepted() {
		t.Errorf("expected accepted 200, got %d", result.StatusCode)
	}
	body, ok := result.Body.(map[string]any)
	if !ok || body["accepted"] != true {
		t.Errorf("expected parsed JSON body, got %#v", result.Body)
	}
	if received["hello"] != "world" {
		t.Errorf("payload not forwarded, server saw %#v", received)
	}
}

func TestForwardReturnsRawBodyWhenNotJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain ok"))
	}))
	defer server.Close()

	relay := NewWebhookRelay()
	result, err := relay.Forward(context.Background(), server.URL, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Body != "plain ok" {
		t.Errorf("expected raw body fallback, got %#v", result.Body)
	}
}

func TestForwardDoesNotRetryUpstreamErrors(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	relay := NewWebhookRelay()
	result, err := relay.Forward(context.Background(), server.URL, map[string]any{})
	if err != nil {
		t.Fatalf("a received response is not a transport failure: %v", err)
	}

	if result.Accepted() {
		t.Error("500 must not read as accepted")
	}
	if requests != 1 {
		t.Errorf("relay must never retry, server saw %d requests", requests)
	}
}

func TestForwardTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	relay := NewWebhookRelay()
	if _, err := relay.Forward(context.Background(), url, map[string]any{}); err == nil {
		t.Fatal("expected transport error for closed server")
	}
}
