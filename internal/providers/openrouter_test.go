package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":    "test-id",
		"model": "anthropic/claude-3.5-sonnet",
		"choices": []map[string]any{
			{
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 8,
			"total_tokens":      18,
		},
	}
}

func TestOpenRouterClient_Chat(t *testing.T) {
	t.Run("successful chat", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.Method != "POST" {
				t.Errorf("unexpected method: %s", r.Method)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(chatResponse(`{"material_name":"cement"}`))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:  "test-key",
			BaseURL: server.URL,
			RPS:     100,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{
				{Role: "system", Content: "extract orders"},
				{Role: "user", Content: "Need 500 bags of cement"},
			},
			MaxTokens: 2000,
		})

		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success {
			t.Error("expected Success = true")
		}
		if result.Content != `{"material_name":"cement"}` {
			t.Errorf("Content = %q", result.Content)
		}
		if result.TotalTokens != 18 {
			t.Errorf("TotalTokens = %d, want 18", result.TotalTokens)
		}
	})

	t.Run("retries on 429 then succeeds", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(chatResponse("ok"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "test-key",
			BaseURL:    server.URL,
			RPS:        100,
			RetryDelay: time.Millisecond,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "ok" {
			t.Errorf("Content = %q, want ok", result.Content)
		}
		if calls.Load() != 2 {
			t.Errorf("expected 2 calls, got %d", calls.Load())
		}
	})

	t.Run("retries empty choices and injects nonce", func(t *testing.T) {
		var lastUserContent atomic.Value
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req openRouterRequest
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Messages) > 0 {
				lastUserContent.Store(req.Messages[len(req.Messages)-1].Content)
			}

			w.Header().Set("Content-Type", "application/json")
			if calls.Add(1) == 1 {
				json.NewEncoder(w).Encode(map[string]any{"id": "x", "model": "m", "choices": []any{}})
				return
			}
			json.NewEncoder(w).Encode(chatResponse("recovered"))
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "test-key",
			BaseURL:    server.URL,
			RPS:        100,
			RetryDelay: time.Millisecond,
		})

		result, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "recovered" {
			t.Errorf("Content = %q, want recovered", result.Content)
		}
		got, _ := lastUserContent.Load().(string)
		if !strings.Contains(got, "retry_1_id") {
			t.Errorf("expected nonce in retried message, got %q", got)
		}
	})

	t.Run("non-retryable status fails immediately", func(t *testing.T) {
		var calls atomic.Int64
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := NewOpenRouterClient(OpenRouterConfig{
			APIKey:     "bad-key",
			BaseURL:    server.URL,
			RPS:        100,
			RetryDelay: time.Millisecond,
		})

		_, err := client.Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "hi"}},
		})
		if err == nil {
			t.Fatal("expected error for 401")
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})
}

func TestOpenRouterClient_ShouldRetry(t *testing.T) {
	client := NewOpenRouterClient(OpenRouterConfig{APIKey: "k"})

	retryable := []int{413, 422, 429, 500, 502, 503, 520, 524}
	for _, code := range retryable {
		if !client.shouldRetry(code) {
			t.Errorf("shouldRetry(%d) = false, want true", code)
		}
	}

	nonRetryable := []int{200, 400, 401, 403, 404}
	for _, code := range nonRetryable {
		if client.shouldRetry(code) {
			t.Errorf("shouldRetry(%d) = true, want false", code)
		}
	}
}
