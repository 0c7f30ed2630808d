package intent

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"event-orchestrator/internal/llm"
	"event-orchestrator/internal/planner"
	"event-orchestrator/internal/shared"
)

//go:embed extractor_prompt.md
var extractorPrompt string

type extractorPromptData struct {
	UserRequest string
	Today       string
}

// ExtractResult carries the parsed requirements plus agent metadata for
// metrics recording.
type ExtractResult struct {
	Requirements planner.EventRequirements
	Meta         shared.AgentMeta
}

// Extractor turns a free-form user message into EventRequirements using an
// LLM prompt that returns JSON.
type Extractor struct {
	textGen llm.TextGenerator
}

// NewExtractor creates an Extractor over the given text generator.
func NewExtractor(textGen llm.TextGenerator) *Extractor {
	return &Extractor{textGen: textGen}
}

// Extract parses the user's message into validated event requirements.
func (e *Extractor) Extract(ctx context.Context, userRequest string) (ExtractResult, error) {
	start := time.Now()

	prompt, err := buildExtractorPrompt(extractorPromptData{
		UserRequest: userRequest,
		Today:       time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return ExtractResult{}, err
	}

	resp, err := e.textGen.GenerateContent(ctx, prompt)
	if err != nil {
		return ExtractResult{}, err
	}

	meta := shared.AgentMeta{
		AgentName: "IntentExtractor",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}

	var req planner.EventRequirements
	if err := json.Unmarshal([]byte(stripFences(resp.Content)), &req); err != nil {
		return ExtractResult{Meta: meta}, fmt.Errorf(
			"failed to parse intent response %w. Response: %s",
			err,
			resp.Content,
		)
	}

	if err := req.Validate(); err != nil {
		return ExtractResult{Meta: meta}, fmt.Errorf("extracted requirements invalid: %w", err)
	}

	return ExtractResult{Requirements: req, Meta: meta}, nil
}

// stripFences removes markdown code fences some models wrap JSON output in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func buildExtractorPrompt(data extractorPromptData) (string, error) {
	tmpl, err := template.New("extractor").Parse(extractorPrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}
