package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tbourn/go-legal-backend/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(config.OpenRouterConfig{
		APIKey:      "sk-test",
		BaseURL:     srv.URL,
		Model:       "openai/gpt-4o",
		Temperature: 0.7,
		MaxTokens:   1000,
		Referer:     "http://localhost:5173",
		AppTitle:    "AI Lawyer Consultation",
	})
}

func TestChatComplete_MissingKey(t *testing.T) {
	c := New(config.OpenRouterConfig{BaseURL: "http://unused", Model: "m"})
	_, err := c.ChatComplete(context.Background(), "sys", "user")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err = %v; want ErrMissingAPIKey", err)
	}
}

func TestChatComplete_SendsExpectedRequest(t *testing.T) {
	var gotPath, gotAuth, gotReferer, gotTitle string
	var gotBody chatCompletionsRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotReferer = r.Header.Get("HTTP-Referer")
		gotTitle = r.Header.Get("X-Title")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"answer"}}]}`))
	})

	out, err := c.ChatComplete(context.Background(), "you are a legal assistant", "question")
	if err != nil {
		t.Fatalf("ChatComplete: %v", err)
	}
	if out != "answer" {
		t.Fatalf("content = %q", out)
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReferer != "http://localhost:5173" || gotTitle != "AI Lawyer Consultation" {
		t.Errorf("attribution headers = %q / %q", gotReferer, gotTitle)
	}
	if gotBody.Model != "openai/gpt-4o" || gotBody.Temperature != 0.7 || gotBody.MaxTokens != 1000 {
		t.Errorf("tuning = %+v", gotBody)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
}

func TestChatComplete_NonterminalStatusCarriesBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"insufficient credits"}}`))
	})

	_, err := c.ChatComplete(context.Background(), "sys", "user")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v; want *StatusError", err)
	}
	if se.StatusCode != http.StatusPaymentRequired {
		t.Errorf("status = %d", se.StatusCode)
	}
	if !strings.Contains(se.Body, "insufficient credits") {
		t.Errorf("body = %q; upstream payload should pass through", se.Body)
	}
}

func TestChatComplete_NoChoicesReturnsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})

	out, err := c.ChatComplete(context.Background(), "sys", "user")
	if err != nil {
		t.Fatalf("ChatComplete: %v", err)
	}
	if out != "" {
		t.Fatalf("content = %q; want empty for no choices", out)
	}
}

func TestChatComplete_MalformedResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [`))
	})

	if _, err := c.ChatComplete(context.Background(), "sys", "user"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestChatComplete_TransportError(t *testing.T) {
	c := New(config.OpenRouterConfig{
		APIKey:  "sk-test",
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		Model:   "m",
	})
	if _, err := c.ChatComplete(context.Background(), "sys", "user"); err == nil {
		t.Fatalf("expected transport error")
	}
}
