package models

import "time"

// WebsiteContent holds the content extracted from a source URL
type WebsiteContent struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MainContent string    `json:"main_content"`
	URL         string    `json:"url"`
	Author      string    `json:"author,omitempty"`
	Language    string    `json:"language,omitempty"`
	SourceName  string    `json:"source_name"` // "firecrawl", "builtin"
	FetchedAt   time.Time `json:"fetched_at"`
}

// Preferences captures user-supplied generation settings
type Preferences struct {
	Audience       string   `json:"audience"`
	Tone           string   `json:"tone"`
	CustomHashtags []string `json:"custom_hashtags,omitempty"`
	Platforms      []string `json:"platforms"`
}

// Post is a finished, platform-conformant social media post
type Post struct {
	Platform       string   `json:"platform"` // "twitter", "linkedin", "facebook", "instagram"
	Body           string   `json:"body"`
	Hashtags       []string `json:"hashtags"`
	Truncated      bool     `json:"truncated"`
	CharacterCount int      `json:"character_count"`
	CharacterLimit int      `json:"character_limit"`
}

// GenerationRun bundles the posts produced for one URL
type GenerationRun struct {
	ID          string      `json:"id"`
	URL         string      `json:"url"`
	Title       string      `json:"title"`
	Preferences Preferences `json:"preferences"`
	Posts       []Post      `json:"posts"`
	Warnings    []string    `json:"warnings,omitempty"` // per-platform failures, surfaced not retried
	GeneratedAt time.Time   `json:"generated_at"`
}
