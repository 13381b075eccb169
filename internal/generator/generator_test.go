package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/platform"
)

// MockClient is a mock implementation of the completion client
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(openai.ChatCompletionResponse), args.Error(1)
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func testRequest(t *testing.T) Request {
	t.Helper()

	spec, err := platform.SpecFor(platform.Twitter)
	require.NoError(t, err)

	return Request{
		Content: &models.WebsiteContent{
			Title:       "Launch Week",
			Description: "Five features in five days",
			MainContent: "Day one brings the new editor.",
			URL:         "https://example.com/launch",
			Author:      "Jordan",
		},
		Platform: spec,
		Audience: "developers",
		Tone:     "playful",
	}
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	client := &MockClient{}
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completionWith("  Launch day! Check it out.  "), nil).Once()

	g := &OpenAIGenerator{client: client, model: "gpt-4o-mini", temperature: 0.7, maxContentChars: 8000}

	draft, err := g.Generate(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "Launch day! Check it out.", draft)
	client.AssertExpectations(t)
}

func TestOpenAIGenerator_Generate_RetriesOnceOnFailure(t *testing.T) {
	original := retryDelay
	retryDelay = 0
	t.Cleanup(func() { retryDelay = original })

	client := &MockClient{}
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, errors.New("temporary outage")).Once()
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(completionWith("second try draft"), nil).Once()

	g := &OpenAIGenerator{client: client, model: "gpt-4o-mini"}

	draft, err := g.Generate(context.Background(), testRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "second try draft", draft)
	client.AssertExpectations(t)
}

func TestOpenAIGenerator_Generate_FailsAfterRetry(t *testing.T) {
	original := retryDelay
	retryDelay = 0
	t.Cleanup(func() { retryDelay = original })

	cause := errors.New("still down")
	client := &MockClient{}
	client.On("CreateChatCompletion", mock.Anything, mock.Anything).
		Return(openai.ChatCompletionResponse{}, cause).Twice()

	g := &OpenAIGenerator{client: client, model: "gpt-4o-mini"}

	_, err := g.Generate(context.Background(), testRequest(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "after retry")
	client.AssertExpectations(t)
}

func TestOpenAIGenerator_Generate_EmptyDraft(t *testing.T) {
	tests := []struct {
		name     string
		response openai.ChatCompletionResponse
	}{
		{name: "no choices", response: openai.ChatCompletionResponse{}},
		{name: "whitespace content", response: completionWith("   \n  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockClient{}
			client.On("CreateChatCompletion", mock.Anything, mock.Anything).
				Return(tt.response, nil).Once()

			g := &OpenAIGenerator{client: client, model: "gpt-4o-mini"}

			_, err := g.Generate(context.Background(), testRequest(t))
			assert.ErrorIs(t, err, ErrEmptyDraft)
		})
	}
}

func TestOpenAIGenerator_Generate_NilContent(t *testing.T) {
	g := &OpenAIGenerator{client: &MockClient{}, model: "gpt-4o-mini"}

	_, err := g.Generate(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without content")
}

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage(testRequest(t), 8000)

	assert.Contains(t, msg, "Twitter (X)")
	assert.Contains(t, msg, "280 characters")
	assert.Contains(t, msg, "Target audience: developers")
	assert.Contains(t, msg, "Tone: playful")
	assert.Contains(t, msg, "Page title: Launch Week")
	assert.Contains(t, msg, "Author: Jordan")
	assert.Contains(t, msg, "https://example.com/launch")
	assert.Contains(t, msg, "Day one brings the new editor.")
}

func TestBuildUserMessage_CapsContent(t *testing.T) {
	req := testRequest(t)
	req.Content.MainContent = strings.Repeat("long body ", 100)

	msg := buildUserMessage(req, 40)

	assert.Contains(t, msg, "long body")
	assert.NotContains(t, msg, strings.Repeat("long body ", 10))
}

func TestCapRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{name: "under limit", input: "short", limit: 10, expected: "short"},
		{name: "over limit", input: "abcdefghij", limit: 4, expected: "abcd"},
		{name: "zero disables", input: "anything", limit: 0, expected: "anything"},
		{name: "multibyte safe", input: "café au lait", limit: 4, expected: "café"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, capRunes(tt.input, tt.limit))
		})
	}
}
