package delivery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/models"
)

func sampleRun() *models.GenerationRun {
	return &models.GenerationRun{
		ID:    "20260314_093000",
		URL:   "https://example.com/launch",
		Title: "Launch Week",
		Preferences: models.Preferences{
			Audience: "developers",
			Tone:     "playful",
		},
		Posts: []models.Post{
			{
				Platform:       "twitter",
				Body:           "Launch day! https://example.com/launch",
				Hashtags:       []string{"#launch"},
				Truncated:      true,
				CharacterCount: 38,
				CharacterLimit: 280,
			},
			{
				Platform:       "linkedin",
				Body:           "We shipped five features in five days.",
				CharacterCount: 38,
				CharacterLimit: 3000,
			},
		},
		Warnings:    []string{"instagram: model returned an empty draft"},
		GeneratedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestService_SendRun_NoChannelsConfigured(t *testing.T) {
	svc := NewService(&config.Config{})
	assert.NoError(t, svc.SendRun(sampleRun()))
}

func TestService_SendRun_NilRun(t *testing.T) {
	svc := NewService(&config.Config{})
	assert.Error(t, svc.SendRun(nil))
}

func TestBuildWebhookPayload(t *testing.T) {
	run := sampleRun()

	payload := buildWebhookPayload(run)

	assert.Equal(t, "generation_run", payload.Event)
	assert.Equal(t, "20260314_093000", payload.RunID)
	assert.Equal(t, "https://example.com/launch", payload.SourceURL)
	assert.Equal(t, "Launch Week", payload.PageTitle)
	assert.Equal(t, "2026-03-14T09:30:00Z", payload.GeneratedAt)
	assert.Equal(t, 2, payload.PostCount)
	assert.Equal(t, run.Posts, payload.Posts)
	assert.Equal(t, run.Warnings, payload.Warnings)
}

func TestBuildEmailHTML(t *testing.T) {
	html, err := buildEmailHTML(sampleRun())
	require.NoError(t, err)

	assert.Contains(t, html, "Launch Week")
	assert.Contains(t, html, "Twitter (X)")
	assert.Contains(t, html, "LinkedIn")
	assert.Contains(t, html, "Launch day!")
	assert.Contains(t, html, "#launch")
	assert.Contains(t, html, "38/280 characters")
	assert.Contains(t, html, "shortened to fit")
	assert.Contains(t, html, "instagram: model returned an empty draft")
}

func TestBuildEmailText(t *testing.T) {
	text := buildEmailText(sampleRun())

	assert.Contains(t, text, "Generated Social Media Posts - Launch Week")
	assert.Contains(t, text, "Audience: developers")
	assert.Contains(t, text, "TWITTER (X)")
	assert.Contains(t, text, "Hashtags: #launch")
	assert.Contains(t, text, "Characters: 38/280")
	assert.Contains(t, text, "shortened to fit the platform limit")
	assert.Contains(t, text, "WARNINGS")
}
