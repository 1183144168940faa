package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/Sumanthgs0005/VOICE-ENABLED-DESKTOP-AGENT/internal/intent"
)

func TestAskWithoutKey(t *testing.T) {
	c := New("Leo", "", "", time.Second, nil)

	_, err := c.Ask(context.Background(), "what is the capital of france")
	if !errors.Is(err, intent.ErrNotConfigured) {
		t.Fatalf("want ErrNotConfigured, got %v", err)
	}
}

func TestAskSendsChatCompletion(t *testing.T) {
	var gotAuth, gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-5-nano",
			"choices": [
				{"index": 0, "message": {"role": "assistant", "content": "Paris."}, "finish_reason": "stop"}
			]
		}`))
	}))
	defer srv.Close()

	c := &Client{
		api:        openai.NewClient(option.WithAPIKey("test-key"), option.WithBaseURL(srv.URL+"/")),
		model:      openai.ChatModelGPT5Nano,
		prompt:     "You are a test assistant.",
		timeout:    5 * time.Second,
		configured: true,
	}

	answer, err := c.Ask(context.Background(), "what is the capital of france")
	if err != nil {
		t.Fatal(err)
	}

	if answer != "Paris." {
		t.Errorf("answer = %q", answer)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if !strings.HasSuffix(gotPath, "chat/completions") {
		t.Errorf("path = %q", gotPath)
	}
}

func TestAskEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`))
	}))
	defer srv.Close()

	c := &Client{
		api:        openai.NewClient(option.WithAPIKey("test-key"), option.WithBaseURL(srv.URL+"/")),
		model:      openai.ChatModelGPT5Nano,
		prompt:     "You are a test assistant.",
		timeout:    5 * time.Second,
		configured: true,
	}

	if _, err := c.Ask(context.Background(), "hello"); err == nil {
		t.Fatal("want error for empty choices")
	}
}
