package content

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/postforge/postforge/internal/models"
)

// BuiltinSource fetches pages directly and extracts readable content with
// goquery. It needs no credentials and is the fallback when Firecrawl is not
// configured.
type BuiltinSource struct {
	client *resty.Client
}

// NewBuiltinSource creates the credential-free content source
func NewBuiltinSource() *BuiltinSource {
	return &BuiltinSource{
		client: resty.New().
			SetTimeout(30 * time.Second).
			SetHeader("User-Agent", "Postforge/1.0"),
	}
}

func (b *BuiltinSource) Name() string {
	return "builtin"
}

func (b *BuiltinSource) IsConfigured() bool {
	return true
}

func (b *BuiltinSource) Extract(ctx context.Context, pageURL string) (*models.WebsiteContent, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		Get(pageURL)

	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%s returned status %d", pageURL, resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	result := extractFromDocument(doc, pageURL)
	logrus.Debugf("Builtin extractor pulled %d characters from %s", len(result.MainContent), pageURL)

	return result, nil
}

// extractFromDocument pulls title, description and the readable main text out
// of a parsed page.
func extractFromDocument(doc *goquery.Document, pageURL string) *models.WebsiteContent {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
			title = strings.TrimSpace(og)
		}
	}
	if title == "" {
		title = "Untitled"
	}

	description, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	if description == "" {
		description, _ = doc.Find(`meta[property="og:description"]`).First().Attr("content")
	}

	author, _ := doc.Find(`meta[name="author"]`).First().Attr("content")
	language, _ := doc.Find("html").First().Attr("lang")

	// Strip boilerplate before collecting text
	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("main").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}

	var parts []string
	root.Find("h1, h2, h3, p, li").Each(func(i int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			parts = append(parts, text)
		}
	})

	mainContent := strings.Join(parts, "\n\n")
	if mainContent == "" {
		mainContent = strings.Join(strings.Fields(root.Text()), " ")
	}

	return &models.WebsiteContent{
		Title:       title,
		Description: strings.TrimSpace(description),
		MainContent: mainContent,
		URL:         pageURL,
		Author:      strings.TrimSpace(author),
		Language:    strings.TrimSpace(language),
		SourceName:  "builtin",
		FetchedAt:   time.Now().UTC(),
	}
}
