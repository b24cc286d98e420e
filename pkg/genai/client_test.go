// ABOUTME: Tests for the chat-completions client
// ABOUTME: Uses httptest to verify request shape and response handling

package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq ChatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}

		resp := ChatResponse{
			ID: "chatcmpl-1",
			Choices: []ChatChoice{{
				Message: ChatMessage{Role: "assistant", Content: "generated text"},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")
	got, err := client.Generate(context.Background(), "write a PRD")
	if err != nil {
		t.Fatalf("Failed to generate: %v", err)
	}

	if got != "generated text" {
		t.Errorf("Expected 'generated text', got '%s'", got)
	}
	if gotPath != "/v1/chat/completions" {
		t.Errorf("Unexpected path '%s'", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Unexpected auth header '%s'", gotAuth)
	}
	if gotReq.Model != "test-model" {
		t.Errorf("Unexpected model '%s'", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "write a PRD" {
		t.Errorf("Unexpected messages %+v", gotReq.Messages)
	}
}

func TestGenerateBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "m")
	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for non-200 status")
	}
}

func TestGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ChatResponse{ID: "chatcmpl-2"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "k", "m")
	if _, err := client.Generate(context.Background(), "prompt"); err == nil {
		t.Error("Expected error for empty choices")
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "k", "m")
	if _, err := client.Generate(ctx, "prompt"); err == nil {
		t.Error("Expected error for cancelled context")
	}
}
