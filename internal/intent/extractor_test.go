package intent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"event-orchestrator/internal/llm"
	"event-orchestrator/internal/shared"
)

type mockTextGen struct {
	response string
	err      error
	prompt   string
}

func (m *mockTextGen) GenerateContent(_ context.Context, prompt string) (llm.ContentResponse, error) {
	m.prompt = prompt
	if m.err != nil {
		return llm.ContentResponse{}, m.err
	}
	return llm.ContentResponse{
		Content: m.response,
		Usage:   shared.TokenUsage{PromptTokens: 120, CompletionTokens: 40, TotalTokens: 160, Model: "test-model"},
	}, nil
}

const weddingJSON = `{
  "event_type": "wedding",
  "attendees": 200,
  "date": "2026-03-15",
  "budget": 500000,
  "location": "Lahore",
  "preferences": ["traditional", "mehndi"]
}`

func TestExtract(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		gen := &mockTextGen{response: weddingJSON}
		result, err := NewExtractor(gen).Extract(context.Background(), "Plan a wedding for 200 people in Lahore, 5 lakh budget, March 15")
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}

		req := result.Requirements
		if req.EventType != "wedding" || req.Attendees != 200 || req.Budget != 500000 {
			t.Errorf("Unexpected requirements: %+v", req)
		}
		if req.Location != "Lahore" || len(req.Preferences) != 2 {
			t.Errorf("Lost location or preferences: %+v", req)
		}
		if result.Meta.AgentName != "IntentExtractor" {
			t.Errorf("Unexpected agent name %q", result.Meta.AgentName)
		}
		if result.Meta.Usage.TotalTokens != 160 {
			t.Errorf("Usage not propagated: %+v", result.Meta.Usage)
		}
		if !strings.Contains(gen.prompt, "200 people in Lahore") {
			t.Error("User request missing from prompt")
		}
	})

	t.Run("FencedResponse", func(t *testing.T) {
		gen := &mockTextGen{response: "```json\n" + weddingJSON + "\n```"}
		result, err := NewExtractor(gen).Extract(context.Background(), "wedding please")
		if err != nil {
			t.Fatalf("Extract failed on fenced JSON: %v", err)
		}
		if result.Requirements.EventType != "wedding" {
			t.Errorf("Unexpected requirements: %+v", result.Requirements)
		}
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		gen := &mockTextGen{response: "I think you want a wedding!"}
		result, err := NewExtractor(gen).Extract(context.Background(), "wedding please")
		if err == nil {
			t.Fatal("Expected parse error")
		}
		if result.Meta.Usage.TotalTokens != 160 {
			t.Error("Expected usage metadata even on parse failure")
		}
	})

	t.Run("IncompleteRequirementsRejected", func(t *testing.T) {
		gen := &mockTextGen{response: `{"event_type": "wedding", "attendees": 0, "date": "", "budget": 0}`}
		_, err := NewExtractor(gen).Extract(context.Background(), "plan a wedding")
		if err == nil {
			t.Fatal("Expected validation error for incomplete extraction")
		}
	})

	t.Run("GeneratorError", func(t *testing.T) {
		gen := &mockTextGen{err: errors.New("quota exceeded")}
		_, err := NewExtractor(gen).Extract(context.Background(), "wedding please")
		if err == nil {
			t.Fatal("Expected generator error to propagate")
		}
	})
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":                     "{\"a\":1}",
		"```json\n{\"a\":1}\n```":       "{\"a\":1}",
		"```\n{\"a\":1}\n```":           "{\"a\":1}",
		"  ```json\n{\"a\":1}\n```  \n": "{\"a\":1}",
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Errorf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
