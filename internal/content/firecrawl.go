package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/postforge/postforge/internal/models"
)

// FirecrawlSource extracts page content through the Firecrawl scrape API
type FirecrawlSource struct {
	apiKey  string
	baseURL string
	client  *resty.Client
}

type firecrawlScrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type firecrawlMetadata struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Language      string `json:"language"`
	Author        string `json:"author"`
	SourceURL     string `json:"sourceURL"`
	StatusCode    int    `json:"statusCode"`
	OGDescription string `json:"ogDescription"`
}

type firecrawlScrapeData struct {
	Markdown string            `json:"markdown"`
	Metadata firecrawlMetadata `json:"metadata"`
}

type firecrawlScrapeResponse struct {
	Success bool                `json:"success"`
	Error   string              `json:"error"`
	Data    firecrawlScrapeData `json:"data"`
}

// NewFirecrawlSource creates a new Firecrawl content source
func NewFirecrawlSource(apiKey, baseURL string) *FirecrawlSource {
	return &FirecrawlSource{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "Postforge/1.0"),
	}
}

func (f *FirecrawlSource) Name() string {
	return "firecrawl"
}

func (f *FirecrawlSource) IsConfigured() bool {
	return f.apiKey != ""
}

func (f *FirecrawlSource) Extract(ctx context.Context, pageURL string) (*models.WebsiteContent, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+f.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(firecrawlScrapeRequest{URL: pageURL, Formats: []string{"markdown"}}).
		Post(f.baseURL + "/v1/scrape")

	if err != nil {
		return nil, fmt.Errorf("firecrawl request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("firecrawl API returned status %d", resp.StatusCode())
	}

	var scrape firecrawlScrapeResponse
	if err := json.Unmarshal(resp.Body(), &scrape); err != nil {
		return nil, fmt.Errorf("failed to decode firecrawl response: %w", err)
	}

	if !scrape.Success {
		return nil, fmt.Errorf("firecrawl scrape failed: %s", scrape.Error)
	}

	logrus.Debugf("Firecrawl scraped %s (%d bytes of markdown)", pageURL, len(scrape.Data.Markdown))

	return f.toContent(scrape.Data, pageURL), nil
}

func (f *FirecrawlSource) toContent(data firecrawlScrapeData, requestedURL string) *models.WebsiteContent {
	meta := data.Metadata

	title := meta.Title
	if title == "" {
		title = "Untitled"
	}

	description := meta.Description
	if description == "" {
		description = meta.OGDescription
	}

	sourceURL := meta.SourceURL
	if sourceURL == "" {
		sourceURL = requestedURL
	}

	return &models.WebsiteContent{
		Title:       title,
		Description: description,
		MainContent: data.Markdown,
		URL:         sourceURL,
		Author:      meta.Author,
		Language:    meta.Language,
		SourceName:  "firecrawl",
		FetchedAt:   time.Now().UTC(),
	}
}
