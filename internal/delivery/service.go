package delivery

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/platform"
)

// Service pushes finished runs to the configured webhook and email channels
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements DeliveryInterface
var _ DeliveryInterface = (*Service)(nil)

// webhookPayload is the JSON body posted to the delivery webhook
type webhookPayload struct {
	Event       string        `json:"event"`
	RunID       string        `json:"run_id"`
	SourceURL   string        `json:"source_url"`
	PageTitle   string        `json:"page_title,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	PostCount   int           `json:"post_count"`
	Posts       []models.Post `json:"posts"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// NewService creates a new delivery service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendRun delivers a run via every configured channel. Channel failures are
// collected so one bad channel does not hide the other.
func (s *Service) SendRun(run *models.GenerationRun) error {
	if run == nil {
		return fmt.Errorf("no run to deliver")
	}

	var errors []string

	if s.config.WebhookURL != "" {
		if err := s.sendToWebhook(run); err != nil {
			logrus.Errorf("Failed to deliver run to webhook: %v", err)
			errors = append(errors, fmt.Sprintf("Webhook: %v", err))
		} else {
			logrus.Infof("Delivered run %s to webhook", run.ID)
		}
	}

	if s.config.DeliveryEmail != "" {
		if err := s.sendEmail(run); err != nil {
			logrus.Errorf("Failed to deliver run via email: %v", err)
			errors = append(errors, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Infof("Delivered run %s via email", run.ID)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("delivery errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

func (s *Service) sendToWebhook(run *models.GenerationRun) error {
	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(buildWebhookPayload(run)).
		Post(s.config.WebhookURL)

	if err != nil {
		return fmt.Errorf("failed to post to webhook: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	return nil
}

func buildWebhookPayload(run *models.GenerationRun) *webhookPayload {
	return &webhookPayload{
		Event:       "generation_run",
		RunID:       run.ID,
		SourceURL:   run.URL,
		PageTitle:   run.Title,
		GeneratedAt: run.GeneratedAt.UTC().Format(time.RFC3339),
		PostCount:   len(run.Posts),
		Posts:       run.Posts,
		Warnings:    run.Warnings,
	}
}

func (s *Service) sendEmail(run *models.GenerationRun) error {
	subject := fmt.Sprintf("Social media posts ready - %s (%d posts)", run.Title, len(run.Posts))

	htmlBody, err := buildEmailHTML(run)
	if err != nil {
		return fmt.Errorf("failed to build email HTML: %w", err)
	}

	textBody := buildEmailText(run)

	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.DeliveryEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func buildEmailHTML(run *models.GenerationRun) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Generated Social Media Posts</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .header { background-color: #1a73e8; color: white; padding: 20px; border-radius: 5px; }
        .meta { background-color: #f5f5f5; padding: 15px; margin: 20px 0; border-radius: 5px; }
        .post { border-left: 4px solid #1a73e8; padding: 10px; margin: 10px 0; background-color: #fafafa; }
        .post-platform { font-weight: bold; margin-bottom: 5px; }
        .post-body { white-space: pre-wrap; }
        .post-meta { color: #666; font-size: 0.9em; margin-top: 8px; }
        .truncated { color: #b45309; }
        .warning { border-left: 4px solid #d13438; padding: 10px; margin: 10px 0; background-color: #fff5f5; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Generated Social Media Posts</h1>
        <p>{{.Title}} - generated on {{.GeneratedAt.Format "January 2, 2006 at 3:04 PM UTC"}}</p>
    </div>

    <div class="meta">
        <p><strong>Source URL:</strong> <a href="{{.URL}}">{{.URL}}</a></p>
        <p><strong>Target Audience:</strong> {{.Preferences.Audience}}</p>
        <p><strong>Content Tone:</strong> {{.Preferences.Tone}}</p>
    </div>

    {{range .Posts}}
    <div class="post">
        <div class="post-platform">{{display .Platform}}</div>
        <div class="post-body">{{.Body}}</div>
        <div class="post-meta">
            {{.CharacterCount}}/{{.CharacterLimit}} characters
            {{if .Hashtags}} | {{join .Hashtags " "}}{{end}}
            {{if .Truncated}} | <span class="truncated">shortened to fit</span>{{end}}
        </div>
    </div>
    {{end}}

    {{if .Warnings}}
    <h2>Warnings</h2>
    {{range .Warnings}}
    <div class="warning">{{.}}</div>
    {{end}}
    {{end}}

    <hr>
    <p><small>Generated automatically by Postforge.</small></p>
</body>
</html>
`

	t := template.New("email").Funcs(template.FuncMap{
		"display": platform.DisplayName,
		"join":    strings.Join,
	})

	t, err := t.Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, run); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func buildEmailText(run *models.GenerationRun) string {
	var text strings.Builder

	text.WriteString(fmt.Sprintf("Generated Social Media Posts - %s\n", run.Title))
	text.WriteString(fmt.Sprintf("Source: %s\n", run.URL))
	text.WriteString(fmt.Sprintf("Generated: %s\n\n", run.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC")))

	text.WriteString("PREFERENCES\n")
	text.WriteString("===========\n")
	text.WriteString(fmt.Sprintf("Audience: %s\n", run.Preferences.Audience))
	text.WriteString(fmt.Sprintf("Tone: %s\n", run.Preferences.Tone))

	for _, post := range run.Posts {
		text.WriteString(fmt.Sprintf("\n%s\n", strings.ToUpper(platform.DisplayName(post.Platform))))
		text.WriteString(strings.Repeat("=", len(platform.DisplayName(post.Platform))) + "\n")
		text.WriteString(post.Body + "\n")

		if len(post.Hashtags) > 0 {
			text.WriteString(fmt.Sprintf("Hashtags: %s\n", strings.Join(post.Hashtags, " ")))
		}
		text.WriteString(fmt.Sprintf("Characters: %d/%d\n", post.CharacterCount, post.CharacterLimit))
		if post.Truncated {
			text.WriteString("Note: shortened to fit the platform limit\n")
		}
	}

	if len(run.Warnings) > 0 {
		text.WriteString("\nWARNINGS\n")
		text.WriteString("========\n")
		for _, warning := range run.Warnings {
			text.WriteString(fmt.Sprintf("- %s\n", warning))
		}
	}

	text.WriteString("\n---\nGenerated automatically by Postforge.\n")

	return text.String()
}
