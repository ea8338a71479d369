package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nikogura/resume-coach/pkg/failure"
	"github.com/tidwall/gjson"
)

func openAIServer(t *testing.T, reply string, hits *int32) (server *httptest.Server) {
	t.Helper()
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)

		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("Expected chat completions path, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Missing or incorrect authorization header: %q", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		if gjson.GetBytes(body, "messages.0.role").String() != "system" {
			t.Errorf("Expected system message first, got %s", string(body))
		}
		if gjson.GetBytes(body, "messages.1.content").String() != "the query" {
			t.Errorf("Expected user query, got %s", string(body))
		}
		if gjson.GetBytes(body, "response_format.type").String() != "json_object" {
			t.Errorf("Expected json_object response format, got %s", string(body))
		}

		resp := map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   OpenAIModel,
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": reply,
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	return server
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{in: "", want: ProviderOpenAI},
		{in: "OpenAI", want: ProviderOpenAI},
		{in: "anthropic", want: ProviderAnthropic},
		{in: "claude", want: ProviderAnthropic},
		{in: "llama", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseProvider(tt.in)
		if tt.wantErr {
			if !failure.Is(err, failure.PreconditionNotMet) {
				t.Errorf("Expected precondition error for %q, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Expected %s for %q, got %s", tt.want, tt.in, got)
		}
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Settings{APIKey: "k"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.Provider() != ProviderOpenAI {
		t.Errorf("Expected openai provider, got %s", client.Provider())
	}
	if client.Model() != OpenAIModel {
		t.Errorf("Expected model %s, got %s", OpenAIModel, client.Model())
	}

	client, err = NewClient(Settings{Provider: ProviderAnthropic, APIKey: "k"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client.Model() != ClaudeModel {
		t.Errorf("Expected model %s, got %s", ClaudeModel, client.Model())
	}

	_, err = NewClient(Settings{Provider: "llama"})
	if !failure.Is(err, failure.PreconditionNotMet) {
		t.Errorf("Expected precondition error for unknown provider, got %v", err)
	}
}

func TestCompleteOpenAI(t *testing.T) {
	var hits int32
	server := openAIServer(t, `{"skills": {"Languages": ["Go"]}}`, &hits)
	defer server.Close()

	client, err := NewClient(Settings{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	reply, err := client.Complete(context.Background(), Request{Instructions: "format", Query: "the query"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if reply != `{"skills": {"Languages": ["Go"]}}` {
		t.Errorf("Unexpected reply: %q", reply)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("Expected 1 request, got %d", hits)
	}
}

func TestCompleteAnthropic(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)

		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("Expected messages path, got %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Error("Missing or incorrect API key header")
		}

		body, _ := io.ReadAll(r.Body)
		if gjson.GetBytes(body, "system.0.text").String() != "format" {
			t.Errorf("Expected instructions as system prompt, got %s", string(body))
		}
		if gjson.GetBytes(body, "model").String() != ClaudeModel {
			t.Errorf("Expected default model, got %s", string(body))
		}

		resp := map[string]interface{}{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]interface{}{
				{"type": "text", "text": `{"products": []}`},
			},
			"model":         ClaudeModel,
			"stop_reason":   "end_turn",
			"stop_sequence": nil,
			"usage":         map[string]interface{}{"input_tokens": 10, "output_tokens": 5},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client, err := NewClient(Settings{Provider: ProviderAnthropic, APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	reply, err := client.Complete(context.Background(), Request{Instructions: "format", Query: "the query"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if reply != `{"products": []}` {
		t.Errorf("Unexpected reply: %q", reply)
	}
}

func TestCompleteWithoutKeyMakesNoRequest(t *testing.T) {
	var hits int32
	server := openAIServer(t, `{}`, &hits)
	defer server.Close()

	for _, provider := range []Provider{ProviderOpenAI, ProviderAnthropic} {
		client, err := NewClient(Settings{Provider: provider, APIKey: "  ", BaseURL: server.URL})
		if err != nil {
			t.Fatalf("Failed to create client: %v", err)
		}

		err = client.Ready()
		if !failure.Is(err, failure.PreconditionNotMet) {
			t.Errorf("Expected precondition error from Ready, got %v", err)
		}

		_, err = client.Complete(context.Background(), Request{Query: "q"})
		if !failure.Is(err, failure.PreconditionNotMet) {
			t.Errorf("Expected precondition error from Complete, got %v", err)
		}
	}

	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("Expected no requests without an API key, got %d", hits)
	}
}

func TestCompleteTransportErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Settings{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Complete(context.Background(), Request{Query: "q"})
	if !failure.Is(err, failure.TransportError) {
		t.Errorf("Expected transport error for HTTP 500, got %v", err)
	}

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer slow.Close()

	client, err = NewClient(Settings{APIKey: "test-key", BaseURL: slow.URL, Timeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Complete(context.Background(), Request{Query: "q"})
	if !failure.Is(err, failure.TransportError) {
		t.Errorf("Expected transport error on timeout, got %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 0, "model": "gpt-4o", "choices": []}`))
	}))
	defer server.Close()

	client, err := NewClient(Settings{APIKey: "test-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.Complete(context.Background(), Request{Query: "q"})
	if !failure.Is(err, failure.ModelOutputInvalid) {
		t.Errorf("Expected model output error for empty choices, got %v", err)
	}
}
