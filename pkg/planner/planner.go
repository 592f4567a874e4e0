package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Activity is one scheduled item of an itinerary day.
type Activity struct {
	Time        string `json:"time"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// Day groups the activities of one itinerary day.
type Day struct {
	Day        int        `json:"day"`
	Activities []Activity `json:"activities"`
}

// Itinerary is the structured plan returned by the model.
type Itinerary struct {
	Destination string `json:"destination"`
	Duration    int    `json:"duration"`
	Days        []Day  `json:"days"`
}

// Result is the full planner response: a short message plus the itinerary.
type Result struct {
	Message   string    `json:"message"`
	Itinerary Itinerary `json:"itinerary"`
}

// Generator produces an itinerary for a free-form trip request.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
}

type openAIPlanner struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

// NewGenerator creates a Generator backed by an OpenAI-compatible chat
// completions endpoint.
func NewGenerator(apiKey, model string, client *http.Client) Generator {
	return &openAIPlanner{
		apiKey:  apiKey,
		model:   model,
		client:  client,
		baseURL: defaultBaseURL,
	}
}

// newGeneratorWithURL creates a Generator with a custom base URL for testing.
func newGeneratorWithURL(apiKey, model string, client *http.Client, url string) Generator {
	return &openAIPlanner{
		apiKey:  apiKey,
		model:   model,
		client:  client,
		baseURL: url,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const systemPrompt = `You are a helpful adventure planner. Respond with a JSON object containing "message" (a short friendly string) and "itinerary" with "destination", "duration" (number of days), and "days": an array of {"day", "activities": [{"time", "description", "location"}]}. No markdown formatting.`

func (p *openAIPlanner) Generate(ctx context.Context, prompt string) (*Result, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}
	reqBody.ResponseFormat.Type = "json_object"

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("planner: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("planner: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("planner: call model: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("planner: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("planner: model returned %d: %s", resp.StatusCode, string(body))
	}

	var chat chatResponse
	if err := json.Unmarshal(body, &chat); err != nil {
		return nil, fmt.Errorf("planner: parse response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("planner: empty response")
	}

	content := strings.TrimSpace(chat.Choices[0].Message.Content)
	// Some models fence JSON despite instructions.
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("planner: parse itinerary: %w", err)
	}
	return &result, nil
}

// NormalizePrompt appends a default trip length when the request does not
// mention one, so equal requests hit the same cache row.
func NormalizePrompt(message string) string {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "day") && !strings.Contains(lower, "week") {
		return message + " for 2 days"
	}
	return message
}
