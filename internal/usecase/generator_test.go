package usecase

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"ragpipe/internal/adapter/llm"
	"ragpipe/internal/domain"
)

func TestGeneratorParsesCleanJSON(t *testing.T) {
	backend := &llm.MockClient{Reply: func(sys, user string) (string, error) {
		if !strings.Contains(user, "Context information") {
			t.Error("context missing from prompt")
		}
		return `{"answer": "Paris"}`, nil
	}}

	g := NewGenerator(backend, "")
	resp := g.Generate("Paris is the capital of France.", "capital of France?")

	if resp.Err != nil {
		t.Fatalf("unexpected error: %v", resp.Err)
	}
	answer, ok := resp.Answer()
	if !ok || answer != "Paris" {
		t.Errorf("expected answer Paris, got %q (ok=%v)", answer, ok)
	}
}

func TestGeneratorParsesFencedJSON(t *testing.T) {
	backend := &llm.MockClient{Reply: func(sys, user string) (string, error) {
		return "Sure, here you go:\n```json\n{\"answer\": \"42\"}\n```\nHope that helps!", nil
	}}

	g := NewGenerator(backend, "")
	resp := g.Generate("", "meaning of life?")

	if resp.Err != nil {
		t.Fatalf("unexpected error: %v", resp.Err)
	}
	if answer, _ := resp.Answer(); answer != "42" {
		t.Errorf("expected answer 42, got %q", answer)
	}
}

func TestGeneratorMalformedOutput(t *testing.T) {
	backend := &llm.MockClient{Reply: func(sys, user string) (string, error) {
		return "I cannot answer in JSON, sorry.", nil
	}}

	g := NewGenerator(backend, "")
	resp := g.Generate("", "query")

	if !errors.Is(resp.Err, domain.ErrMalformedOutput) {
		t.Errorf("expected ErrMalformedOutput, got %v", resp.Err)
	}
	if resp.Data != nil {
		t.Error("Data must be nil when Err is set")
	}
	if resp.RawResponse == "" {
		t.Error("raw response should be preserved for inspection")
	}
}

func TestGeneratorBackendFailure(t *testing.T) {
	backend := &llm.MockClient{Reply: func(sys, user string) (string, error) {
		return "", fmt.Errorf("connection refused")
	}}

	g := NewGenerator(backend, "")
	resp := g.Generate("", "query")

	if !errors.Is(resp.Err, domain.ErrGenerationBackend) {
		t.Errorf("expected ErrGenerationBackend, got %v", resp.Err)
	}
	if resp.Data != nil {
		t.Error("Data must be nil when Err is set")
	}
}

func TestGeneratorNoContextPrompt(t *testing.T) {
	var captured string
	backend := &llm.MockClient{Reply: func(sys, user string) (string, error) {
		captured = user
		return `{"answer": "x"}`, nil
	}}

	g := NewGenerator(backend, "")
	g.Generate("", "bare query")

	if strings.Contains(captured, "Context information") {
		t.Errorf("empty context should produce a bare query prompt, got %q", captured)
	}
	if !strings.Contains(captured, "bare query") {
		t.Errorf("query missing from prompt: %q", captured)
	}
}

func TestParseJSONPayloadNested(t *testing.T) {
	data, err := parseJSONPayload(`prefix {"answer": "a {weird} one", "extra": {"k": 1}} suffix`)
	if err != nil {
		t.Fatal(err)
	}
	if data["answer"] != "a {weird} one" {
		t.Errorf("unexpected answer: %v", data["answer"])
	}
}
