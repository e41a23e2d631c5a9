package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rfconstrucoes/obra/internal/config"
)

func testClient(endpoint string, maxRetries int) *Client {
	return New(config.MailConfig{
		Endpoint:   endpoint,
		FromName:   "RF Construções",
		Timeout:    config.Duration(2 * time.Second),
		MaxRetries: maxRetries,
	})
}

func TestSend_Success(t *testing.T) {
	var got relayPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	c := testClient(server.URL, 0)
	err := c.Send(context.Background(), Notification{
		AccessKey: "relay-key",
		Subject:   "Novo pedido de orçamento - João",
		Message:   "Nome: João",
		ReplyTo:   "joao@example.com",
	})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if got.AccessKey != "relay-key" {
		t.Errorf("access_key = %q", got.AccessKey)
	}
	if got.FromName != "RF Construções" {
		t.Errorf("from_name = %q", got.FromName)
	}
	if got.Email != "joao@example.com" {
		t.Errorf("email = %q", got.Email)
	}
}

func TestSend_OmitsEmptyReplyTo(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	c := testClient(server.URL, 0)
	if err := c.Send(context.Background(), Notification{AccessKey: "k", Subject: "Teste", Message: "m"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if _, present := raw["email"]; present {
		t.Error("empty reply-to should be omitted from the payload")
	}
}

func TestSend_RelayReportsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"success": false})
	}))
	defer server.Close()

	c := testClient(server.URL, 0)
	err := c.Send(context.Background(), Notification{AccessKey: "k", Subject: "s", Message: "m"})
	if !errors.Is(err, ErrRelayRejected) {
		t.Errorf("expected ErrRelayRejected, got %v", err)
	}
}

func TestSend_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer server.Close()

	c := testClient(server.URL, 3)
	if err := c.Send(context.Background(), Notification{AccessKey: "k", Subject: "s", Message: "m"}); err != nil {
		t.Fatalf("Send failed after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("relay attempts = %d, want 3", calls.Load())
	}
}

func TestSend_ClientErrorIsFatal(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := testClient(server.URL, 3)
	if err := c.Send(context.Background(), Notification{AccessKey: "bad", Subject: "s", Message: "m"}); err == nil {
		t.Fatal("expected error from 401 answer")
	}
	if calls.Load() != 1 {
		t.Errorf("relay attempts = %d, want 1 (4xx must not retry)", calls.Load())
	}
}

func TestSend_MissingAccessKey(t *testing.T) {
	c := testClient("http://relay.invalid", 0)
	if err := c.Send(context.Background(), Notification{Subject: "s", Message: "m"}); err == nil {
		t.Fatal("expected error for missing access key")
	}
}
