package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://api.example.com/", nil)

	if client.BaseURL() != "https://api.example.com" {
		t.Errorf("expected baseURL without trailing slash, got '%s'", client.BaseURL())
	}
}

func TestDo_SendsBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("expected Authorization 'Bearer test-token', got '%s'", auth)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, StaticToken("test-token"))
	if err := client.Ping(context.Background(), "/bookings"); err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}
}

func TestDo_OmitsAuthorizationWithoutToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("expected no Authorization header, got '%s'", auth)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	if err := client.Ping(context.Background(), "/"); err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}
}

func TestDo_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"token expired"}`))
	}))
	defer server.Close()

	var calls int32
	client := NewClient(server.URL, StaticToken("old"), WithUnauthorizedHandler(func() {
		atomic.AddInt32(&calls, 1)
	}))

	err := client.Ping(context.Background(), "/bookings")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected auth error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected unauthorized handler to run once, ran %d times", calls)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !apiErr.Silent() {
		t.Error("expected auth error to be silent")
	}
	if apiErr.UserMessage() != "" {
		t.Errorf("expected no user message for auth error, got '%s'", apiErr.UserMessage())
	}
}

func TestDo_ServerErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "message field", status: http.StatusBadRequest, body: `{"success":false,"message":"Invalid status"}`, wantMessage: "Invalid status"},
		{name: "error field", status: http.StatusConflict, body: `{"error":"already replied"}`, wantMessage: "already replied"},
		{name: "message preferred over error", status: http.StatusBadRequest, body: `{"message":"first","error":"second"}`, wantMessage: "first"},
		{name: "non-string message ignored", status: http.StatusBadRequest, body: `{"message":{"code":1}}`, wantMessage: ""},
		{name: "plain text body", status: http.StatusInternalServerError, body: `oops`, wantMessage: ""},
		{name: "empty body", status: http.StatusBadGateway, body: ``, wantMessage: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, StaticToken("t"))
			err := client.Ping(context.Background(), "/bookings")

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T (%v)", err, err)
			}
			if apiErr.Kind != KindServer {
				t.Errorf("expected KindServer, got %v", apiErr.Kind)
			}
			if apiErr.Status != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.Status)
			}
			if apiErr.Message != tt.wantMessage {
				t.Errorf("expected message '%s', got '%s'", tt.wantMessage, apiErr.Message)
			}
			if string(apiErr.Data) != tt.body {
				t.Errorf("expected data '%s', got '%s'", tt.body, string(apiErr.Data))
			}
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, StaticToken("t"))
	err := client.Ping(context.Background(), "/bookings")

	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if IsCanceled(err) {
		t.Error("transport error must not be reported as canceled")
	}

	var apiErr *Error
	errors.As(err, &apiErr)
	if apiErr.UserMessage() != "network error" {
		t.Errorf("expected 'network error', got '%s'", apiErr.UserMessage())
	}
	if apiErr.Status != 0 {
		t.Errorf("expected status 0, got %d", apiErr.Status)
	}
}

func TestDo_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, nil, WithTimeout(50*time.Millisecond))
	err := client.Ping(context.Background(), "/bookings")

	if !IsTransport(err) {
		t.Errorf("expected timeout to be a transport error, got %v", err)
	}
}

func TestDo_Canceled(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	client := NewClient(server.URL, nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Ping(ctx, "/bookings")
	}()

	<-started
	cancel()

	err := <-errCh
	if !IsCanceled(err) {
		t.Fatalf("expected canceled error, got %v", err)
	}
	if !errors.Is(err, ErrCanceled) {
		t.Error("expected errors.Is(err, ErrCanceled)")
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("expected errors.Is(err, context.Canceled)")
	}
	if IsTransport(err) {
		t.Error("canceled request must not be a transport error")
	}
}
