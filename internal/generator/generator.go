package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/platform"
)

// Client is the minimal interface needed to call a chat model. It mirrors the
// CreateChatCompletion method of the OpenAI client so any OpenAI-compatible
// backend can be adapted.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Generator produces a raw post draft for one platform. The draft is plain
// text; conformance (length, hashtags) is owned by the platform adapter.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Request carries everything one generation call needs as structured fields.
type Request struct {
	Content  *models.WebsiteContent
	Platform platform.Spec
	Audience string
	Tone     string
}

// ErrEmptyDraft indicates the model produced no usable post text.
var ErrEmptyDraft = errors.New("model returned an empty draft")

// retryDelay before the single retry on a failed completion call.
var retryDelay = 100 * time.Millisecond

// OpenAIGenerator drafts posts with an OpenAI chat model
type OpenAIGenerator struct {
	client          Client
	model           string
	temperature     float32
	maxContentChars int
}

// NewOpenAIGenerator creates a generator backed by the OpenAI API. An empty
// baseURL uses the public endpoint; any OpenAI-compatible server works.
func NewOpenAIGenerator(apiKey, baseURL, model string, temperature float64, maxContentChars int) *OpenAIGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIGenerator{
		client:          openai.NewClientWithConfig(cfg),
		model:           model,
		temperature:     float32(temperature),
		maxContentChars: maxContentChars,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if req.Content == nil {
		return "", errors.New("generator called without content")
	}

	chatReq := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildUserMessage(req, g.maxContentChars)},
		},
		Temperature: g.temperature,
		N:           1,
	}

	// Transient-error retry: one short backoff attempt before failing.
	resp, err := g.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		logrus.Debugf("Completion for %s failed, retrying once: %v", req.Platform.Name, err)
		time.Sleep(retryDelay)

		resp, err = g.client.CreateChatCompletion(ctx, chatReq)
		if err != nil {
			return "", fmt.Errorf("completion for %s failed after retry: %w", req.Platform.Name, err)
		}
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyDraft
	}

	draft := strings.TrimSpace(resp.Choices[0].Message.Content)
	if draft == "" {
		return "", ErrEmptyDraft
	}

	return draft, nil
}

const systemMessage = `You are a social media content expert. Your job is to create engaging, platform-optimized posts from website content.
Follow these guidelines:
1. Tailor the post to the platform's style and character limit
2. Include relevant hashtags (max 5) inside the post text
3. Add a compelling call-to-action with the website URL
4. Maintain the brand's voice while adapting to the platform's unique style
5. If available, reference the author to add credibility
6. Adapt the content to match the specified target audience and tone
7. Return only the post text with no commentary or markdown fences`

// platformStyles holds the per-platform writing instruction appended to the
// user message.
var platformStyles = map[string]string{
	platform.Twitter:   "Keep it punchy and conversation-starting. Every character counts.",
	platform.LinkedIn:  "Write in a professional, insight-driven voice. Short paragraphs and a hook in the first line work well.",
	platform.Facebook:  "Write conversationally, like sharing news with a community. A question to the readers fits well.",
	platform.Instagram: "Write an expressive caption with personality. Line breaks and emoji are welcome.",
}

func buildUserMessage(req Request, maxContentChars int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Write a single %s post promoting the page below.\n", platform.DisplayName(req.Platform.Name))
	fmt.Fprintf(&sb, "Stay under %d characters including hashtags.\n", req.Platform.CharacterLimit)
	if style, ok := platformStyles[req.Platform.Name]; ok {
		sb.WriteString(style)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "\nTarget audience: %s\n", req.Audience)
	fmt.Fprintf(&sb, "Tone: %s\n", req.Tone)

	content := req.Content
	fmt.Fprintf(&sb, "\nPage title: %s\n", content.Title)
	if content.Description != "" {
		fmt.Fprintf(&sb, "Page description: %s\n", content.Description)
	}
	if content.Author != "" {
		fmt.Fprintf(&sb, "Author: %s\n", content.Author)
	}
	fmt.Fprintf(&sb, "Page URL: %s\n", content.URL)

	sb.WriteString("\nPage content:\n")
	sb.WriteString(capRunes(content.MainContent, maxContentChars))

	return sb.String()
}

// capRunes bounds the scraped content fed into the prompt.
func capRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
