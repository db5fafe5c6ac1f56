// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hitcraft/hitcraft-cli/internal/auth"
	"github.com/hitcraft/hitcraft-cli/internal/model"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(auth.StaticToken("test-token")).WithBaseURL(server.URL)
}

// =============================================================================
// CREATE THREAD TESTS
// =============================================================================

func TestCreateThread(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/api/v1/chat/" {
			t.Errorf("path = %s, want /api/v1/chat/", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"threadId": "thread_abc"}`))
	})

	threadID, err := client.CreateThread(context.Background(), "artist-1")
	if err != nil {
		t.Fatalf("CreateThread failed: %v", err)
	}
	if threadID != "thread_abc" {
		t.Errorf("threadID = %q, want thread_abc", threadID)
	}
}

func TestCreateThreadEmptyArtistID(t *testing.T) {
	var requests atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	_, err := client.CreateThread(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
	if requests.Load() != 0 {
		t.Error("no network call should be issued for an empty artist id")
	}
}

func TestNoTokenFailsBeforeNetwork(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	client := NewClient(auth.StaticToken("")).WithBaseURL(server.URL)
	_, err := client.CreateThread(context.Background(), "artist-1")

	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if requests.Load() != 0 {
		t.Error("missing token must fail before any network call")
	}
}

// =============================================================================
// SEND MESSAGE TESTS
// =============================================================================

func TestSendMessage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/thread_1/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"message": {
				"content": [{"type": "text", "text": "try a sidechain on the pad"}],
				"timestamp": "2025-08-30T12:00:00Z",
				"role": "assistant"
			}
		}`))
	})

	msg, err := client.SendMessage(context.Background(), "thread_1", "the mix feels muddy")
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if msg.Role != model.RoleAssistant {
		t.Errorf("Role = %q, want assistant", msg.Role)
	}
	if msg.Text() != "try a sidechain on the pad" {
		t.Errorf("Text = %q", msg.Text())
	}
	want := time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC)
	if !msg.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", msg.Timestamp, want)
	}
}

func TestSendMessageValidation(t *testing.T) {
	var requests atomic.Int32
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	if _, err := client.SendMessage(context.Background(), "", "hi"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty thread id: error = %v, want ErrInvalidRequest", err)
	}
	if _, err := client.SendMessage(context.Background(), "t", ""); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("empty text: error = %v, want ErrInvalidRequest", err)
	}
	if requests.Load() != 0 {
		t.Error("client-side validation failures must not hit the network")
	}
}

// =============================================================================
// LIST MESSAGES TESTS
// =============================================================================

func TestListMessages(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"messages": [
				{"content": [{"type":"text","text":"hello"}], "timestamp": "2025-08-30T10:00:00Z", "role": "user"},
				{"content": [{"type":"text","text":"hey! what are we making?"}], "timestamp": "2025-08-30T10:00:05Z", "role": "assistant"}
			]
		}`))
	})

	msgs, err := client.ListMessages(context.Background(), "thread_1")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len = %d, want 2", len(msgs))
	}
	if msgs[0].Role != model.RoleUser || msgs[1].Role != model.RoleAssistant {
		t.Error("message order or roles wrong")
	}
}

func TestListMessagesEmptyThread(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"messages": []}`))
	})

	msgs, err := client.ListMessages(context.Background(), "thread_new")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("len = %d, want 0 (empty thread is valid)", len(msgs))
	}
}

// =============================================================================
// LIST THREADS TESTS
// =============================================================================

func TestListThreads(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("amount"); got != "3" {
			t.Errorf("amount = %q, want 3", got)
		}
		w.Write([]byte(`{
			"threads": {
				"t1": {"title": "Drill beat", "artistId": "a1", "lastMessageAt": "2025-08-29T09:00:00Z"},
				"t2": {"title": "Vocal chain", "artistId": "a1", "lastMessageAt": "2025-08-30T09:00:00Z"},
				"t3": {"title": "Mix notes", "artistId": "a2", "lastMessageAt": "2025-08-28T09:00:00Z"}
			}
		}`))
	})

	threads, err := client.ListThreads(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListThreads failed: %v", err)
	}
	if len(threads) != 3 {
		t.Fatalf("len = %d, want 3", len(threads))
	}

	// Server object order must be preserved by the decoder.
	wantOrder := []string{"t1", "t2", "t3"}
	for i, want := range wantOrder {
		if threads[i].ThreadID != want {
			t.Errorf("threads[%d].ThreadID = %q, want %q", i, threads[i].ThreadID, want)
		}
	}
	if threads[1].Title != "Vocal chain" {
		t.Errorf("Title = %q", threads[1].Title)
	}
}

func TestListThreadsInvalidLimit(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
	if _, err := client.ListThreads(context.Background(), 0); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("error = %v, want ErrInvalidRequest", err)
	}
}

// =============================================================================
// ERROR TAXONOMY TESTS
// =============================================================================

func TestErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"unauthorized", 401, `{"error": "token expired"}`, ErrUnauthorized},
		{"unauthorized no body", 401, ``, ErrUnauthorized},
		{"forbidden", 403, `{"error": "wrong workspace"}`, ErrForbidden},
		{"unavailable", 503, `{"error": "maintenance"}`, ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.CreateThread(context.Background(), "artist-1")
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("error = %v, want %v", err, tc.sentinel)
			}
		})
	}
}

func TestServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "thread store exploded"}`))
	})

	_, err := client.CreateThread(context.Background(), "artist-1")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.Code != 500 {
		t.Errorf("Code = %d, want 500", apiErr.Code)
	}
	if apiErr.Message != "thread store exploded" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestValidationError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors": ["artistId is unknown", "content must not be empty"]}`))
	})

	_, err := client.SendMessage(context.Background(), "t", "x")

	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr) != 2 {
		t.Errorf("len = %d, want 2", len(verr))
	}
}

func TestDecodeError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.CreateThread(context.Background(), "artist-1")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(auth.StaticToken("tok")).WithBaseURL(server.URL)
	_, err := client.CreateThread(context.Background(), "artist-1")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestResponseSizeCap(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	})
	client.WithMaxResponseSize(1024)

	_, err := client.CreateThread(context.Background(), "artist-1")
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode for oversized body", err)
	}
}

// =============================================================================
// RATE LIMIT TESTS
// =============================================================================

func TestWithRateLimitRespectsContext(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"threadId": "t"}`))
	})
	// 1 request per hour with burst 1: the second call must wait, and the
	// canceled context should abort that wait.
	client.WithRateLimit(1.0/3600, 1)

	ctx := context.Background()
	if _, err := client.CreateThread(ctx, "artist-1"); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := client.CreateThread(canceled, "artist-1")
	if !errors.Is(err, ErrTransport) {
		t.Errorf("error = %v, want ErrTransport from aborted limiter wait", err)
	}
}
