package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"answer": "Paris"}`}},
			},
		})
	}))
	defer srv.Close()

	t.Setenv("TEST_API_KEY", "test-key")
	c, err := NewOpenAICompatibleClient("TEST_API_KEY", "gpt-3.5-turbo", srv.URL, 0.3, false)
	if err != nil {
		t.Fatal(err)
	}

	reply, err := c.Generate("you are helpful", "capital of France?")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "Paris") {
		t.Errorf("unexpected reply: %q", reply)
	}
}

func TestOpenAIClientHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	t.Setenv("TEST_API_KEY", "test-key")
	c, err := NewOpenAICompatibleClient("TEST_API_KEY", "gpt-3.5-turbo", srv.URL, 0, false)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Generate("sys", "user"); err == nil {
		t.Error("expected error on HTTP 502")
	}
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("EMPTY_KEY_VAR", "")
	if _, err := NewOpenAICompatibleClient("EMPTY_KEY_VAR", "m", "http://x", 0, false); err == nil {
		t.Error("expected error when API key env is empty")
	}
}
