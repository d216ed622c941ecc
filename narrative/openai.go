package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"lg/fitpal-go-api/plan"
)

/* ─── Prompt ─────────────────────────────────────────────────────────── */

const systemPrompt = `You are an expert in nutrition and training. You will receive a calculated calorie plan as JSON.
Return a valid JSON object, with no extra text, with exactly this structure:
{
  "diet_plan": {
    "breakfast": "...",
    "lunch": "...",
    "dinner": "...",
    "snacks": ["...", "..."],
    "notes": "..."
  },
  "training_plan": {
    "weekly_schedule": {
      "monday": "...",
      "tuesday": "...",
      "wednesday": "...",
      "thursday": "...",
      "friday": "...",
      "saturday": "...",
      "sunday": "rest"
    },
    "notes": "..."
  },
  "explanation": "Brief explanation of why this plan was created"
}
The diet must total roughly target_calories per day. Only respond with valid JSON.`

const userPromptTemplate = "Based on the following calculated data:\n\n%s"

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// DefaultBaseURL is the public OpenAI API host; paths are appended to it.
const DefaultBaseURL = "https://api.openai.com"

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// OpenAIGenerator asks an OpenAI-compatible chat completions endpoint for the narrative.
type OpenAIGenerator struct {
	apiKey  string
	baseURL string // overridable for tests
	model   string
	client  *http.Client
}

// NewOpenAIGenerator builds a generator. Empty baseURL and model fall back to the defaults;
// an empty apiKey yields a generator that always returns ErrDisabled.
func NewOpenAIGenerator(apiKey, baseURL, model string, timeout time.Duration) *OpenAIGenerator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIGenerator{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// Generate serializes result into the prompt and parses the model's answer.
func (g *OpenAIGenerator) Generate(ctx context.Context, result plan.Result) (*Plan, error) {
	if !result.Feasible || result.Plan == nil {
		return nil, ErrNotFeasible
	}
	if g.apiKey == "" {
		return nil, ErrDisabled
	}

	planData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal plan: %w", err)
	}

	content, err := g.complete(ctx, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf(userPromptTemplate, planData)},
	})
	if err != nil {
		return nil, err
	}
	return parsePlan(content)
}

// complete sends one chat completions request and returns choices[0].message.content.
func (g *OpenAIGenerator) complete(ctx context.Context, messages []chatMessage) (string, error) {
	bodyBytes, err := json.Marshal(chatRequest{
		Model:          g.model,
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai returned status %d: %s", ErrUpstream, resp.StatusCode, string(respBytes))
	}

	content := gjson.GetBytes(respBytes, "choices.0.message.content")
	if !content.Exists() {
		return "", fmt.Errorf("%w: no choices in response", ErrUpstream)
	}
	return content.String(), nil
}

// parsePlan checks the required keys before decoding so a partial answer is reported as
// a content error instead of silently producing zero values.
func parsePlan(content string) (*Plan, error) {
	if !gjson.Valid(content) {
		return nil, ErrInvalidContent
	}
	fields := gjson.GetMany(content, "diet_plan", "training_plan.weekly_schedule", "explanation")
	if !fields[0].IsObject() {
		return nil, fmt.Errorf("%w: diet_plan missing", ErrInvalidContent)
	}
	if !fields[1].IsObject() {
		return nil, fmt.Errorf("%w: training_plan.weekly_schedule missing", ErrInvalidContent)
	}
	if fields[2].Type != gjson.String {
		return nil, fmt.Errorf("%w: explanation missing", ErrInvalidContent)
	}

	var p Plan
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidContent, err)
	}
	return &p, nil
}
