// Package gemini implements the activity classification oracle on the
// Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"google.golang.org/genai"

	"github.com/dayscore-dev/dayscore/pkg/category"
	"github.com/dayscore-dev/dayscore/pkg/resolver"
)

const defaultModel = "gemini-2.5-flash-lite"

const defaultTimeout = 20 * time.Second

// Client classifies activity labels with Gemini. It implements
// resolver.Oracle.
type Client struct {
	logger  *slog.Logger
	apiKey  string
	model   string
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the Gemini API key.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithModel overrides the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds one classification call, retries included.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a classification client.
func New(opts ...Option) *Client {
	c := &Client{
		model:   defaultModel,
		timeout: defaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClassifyMany classifies a batch of activity labels in one model call.
// The returned mapping may omit labels the model skipped or answered with
// something outside the category set; the resolver owns the retry policy
// for those. An empty batch is a no-op.
func (c *Client) ClassifyMany(ctx context.Context, labels []string, goals string) (map[string]category.Category, error) {
	if len(labels) == 0 {
		return map[string]category.Category{}, nil
	}

	prompt, err := buildPrompt(labels, goals)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  c.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	modelName := strings.TrimPrefix(c.model, "models/")
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}
	temperature := float32(0)
	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
	}

	var resp *genai.GenerateContentResponse
	err = retry.Do(
		func() error {
			var genErr error
			resp, genErr = client.Models.GenerateContent(ctx, modelName, contents, genConfig)
			if genErr != nil {
				if isTransient(genErr) {
					c.logger.Warn("Gemini transient error, retrying", "error", genErr)
					return genErr
				}
				return retry.Unrecoverable(genErr)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("retrying Gemini call", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("empty gemini answer: %w", resolver.ErrMalformedResponse)
	}

	parsed, err := parseObject(text)
	if err != nil {
		c.logger.Warn("gemini returned unparsable JSON", "raw", text, "error", err)
		return nil, fmt.Errorf("parsing gemini answer: %w", resolver.ErrMalformedResponse)
	}

	mapping := make(map[string]category.Category, len(labels))
	for _, label := range labels {
		value, ok := parsed[label]
		if !ok {
			continue
		}
		if cat, valid := category.Parse(value); valid {
			mapping[label] = cat
		} else {
			c.logger.Debug("gemini answered with unknown category", "label", label, "value", value)
		}
	}
	c.logger.Debug("classified activities", "requested", len(labels), "resolved", len(mapping))
	return mapping, nil
}

func isTransient(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"context deadline exceeded",
		"timeout",
		"temporary failure",
		"429", "500", "502", "503",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			return part.Text
		}
	}
	return ""
}

// parseObject decodes a JSON object of label to category text, tolerating
// prose around the object the way models sometimes wrap answers.
func parseObject(text string) (map[string]string, error) {
	text = strings.TrimSpace(text)
	var obj map[string]string
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in answer")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

const batchPromptTemplate = `Goals context:
%s

Classify each activity into exactly one category.
Return a JSON object mapping each activity string to its category.

Activities (JSON array):
%s

Definitions:
- core:
  activities that directly advance the user's current primary goals.
  these are the big rock actions tied to defined outcomes or milestones.
- self-care:
  essential activities required to maintain physical health, mental health, and basic daily functioning.
  includes sleep, meals, basic cooking to eat, hygiene, commuting, chores, errands, exercise, medical needs, and essential admin.
- peripheral:
  positive and intentional activities that do not directly advance current core goals.
  they may build breadth, enjoyment, or long-term optionality, but are not goal-critical right now.
- waste:
  low-value activities that primarily consume time or attention without meaningful benefit.
  includes mindless scrolling, passive consumption, entertainment binges, watching sports, and reading news unless explicitly goal-driven.

Decision chain:
1) Does this directly advance one of the stated goals/projects? -> core
2) Is it necessary for health or basic functioning? -> self-care
3) Is it primarily passive consumption with low return? -> waste
4) Otherwise -> peripheral

Important examples:
- deliberate piano practice -> core ONLY if user has a goal involving piano professionally / exams; if goals describe piano as a hobby or casual interest, classify as peripheral
- learning to cook -> core ONLY if user's goals include cooking professionally/content; self-care if just to feed self; otherwise peripheral
- reading news -> waste by default; core ONLY if explicitly needed for a current goal/project (research/industry tracking)

Return JSON only, no extra text.
`

func buildPrompt(labels []string, goals string) (string, error) {
	goals = strings.TrimSpace(goals)
	if goals == "" {
		goals = "none"
	}
	activitiesJSON, err := json.Marshal(labels)
	if err != nil {
		return "", fmt.Errorf("encoding activity list: %w", err)
	}
	return fmt.Sprintf(batchPromptTemplate, goals, activitiesJSON), nil
}
