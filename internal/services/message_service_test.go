package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/white/campaign-manager/config"
	"github.com/white/campaign-manager/internal/models"
)

var testProfile = models.LinkedInProfile{
	Name:     "Ada Lovelace",
	JobTitle: "Head of Growth",
	Company:  "Analytical Engines",
	Location: "London",
	Summary:  "Scaling outbound <sales> & partnerships",
}

func TestBuildOutreachPromptInsertsFieldsVerbatim(t *testing.T) {
	prompt, err := BuildOutreachPrompt(testProfile)
	if err != nil {
		t.Fatalf("BuildOutreachPrompt: %v", err)
	}
	for _, want := range []string{
		"Name: Ada Lovelace",
		"Job Title: Head of Growth",
		"Company: Analytical Engines",
		"Location: London",
		"Summary: Scaling outbound <sales> & partnerships",
		"Mention how Outflo can help with their outreach and sales",
		"End with a call to connect",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func newOpenAIServer(t *testing.T, status int, body string, capture *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if capture != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, capture)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIMessageGeneratorReturnsTrimmedContent(t *testing.T) {
	var request map[string]any
	srv := newOpenAIServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4o-mini",
		"choices": [{
			"index": 0,
			"finish_reason": "stop",
			"message": {"role": "assistant", "content": "  Hi Ada, let's connect!\n"}
		}]
	}`, &request)

	g := NewOpenAIMessageGenerator(config.OpenAIConfig{
		APIKey:      "sk-test",
		BaseURL:     srv.URL,
		Temperature: 0.7,
		MaxTokens:   150,
	})

	msg, err := g.Generate(context.Background(), testProfile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if msg != "Hi Ada, let's connect!" {
		t.Fatalf("unexpected message %q", msg)
	}

	if request["model"] != DefaultModel {
		t.Fatalf("expected model %s, got %v", DefaultModel, request["model"])
	}
	if request["temperature"] != 0.7 {
		t.Fatalf("expected temperature 0.7, got %v", request["temperature"])
	}
	if request["max_tokens"] != float64(150) {
		t.Fatalf("expected max_tokens 150, got %v", request["max_tokens"])
	}
	messages, ok := request["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("expected a single message, got %v", request["messages"])
	}
}

func TestOpenAIMessageGeneratorWrapsUpstreamFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
	}))
	t.Cleanup(srv.Close)

	g := NewOpenAIMessageGenerator(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	_, err := g.Generate(context.Background(), testProfile)
	if err == nil {
		t.Fatal("expected error")
	}
	var upstream *UpstreamServiceError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamServiceError, got %T", err)
	}
	if calls != 1 {
		t.Fatalf("expected no retries, got %d calls", calls)
	}
}

func TestOpenAIMessageGeneratorNoChoices(t *testing.T) {
	srv := newOpenAIServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`, nil)

	g := NewOpenAIMessageGenerator(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL})

	msg, err := g.Generate(context.Background(), testProfile)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if msg != "" {
		t.Fatalf("expected empty message, got %q", msg)
	}
}
