package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/postforge/postforge/internal/archive"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/content"
	"github.com/postforge/postforge/internal/delivery"
	"github.com/postforge/postforge/internal/generator"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/platform"
)

// Service runs the full generation flow: extract the page once, draft a post
// per platform concurrently, adapt every draft to its platform rules, then
// archive and deliver the result.
type Service struct {
	config    *config.Config
	source    content.Source
	generator generator.Generator
	archive   *archive.Service
	delivery  delivery.DeliveryInterface
	metrics   *Metrics
	mu        sync.RWMutex
}

// Metrics holds generation metrics
type Metrics struct {
	TotalRuns       int            `json:"total_runs"`
	TotalPosts      int            `json:"total_posts"`
	TruncatedPosts  int            `json:"truncated_posts"`
	LastRun         time.Time      `json:"last_run"`
	LastRunDuration string         `json:"last_run_duration"`
	PlatformMetrics map[string]int `json:"platform_metrics"`
	ErrorCount      int            `json:"error_count"`
}

// NewService creates a new generation pipeline
func NewService(cfg *config.Config, source content.Source, gen generator.Generator, archiveSvc *archive.Service, deliverySvc delivery.DeliveryInterface) *Service {
	return &Service{
		config:    cfg,
		source:    source,
		generator: gen,
		archive:   archiveSvc,
		delivery:  deliverySvc,
		metrics: &Metrics{
			PlatformMetrics: make(map[string]int),
		},
	}
}

// Run generates posts for one URL. Per-platform failures become warnings on
// the run; only a run that produces no posts at all is an error.
func (s *Service) Run(ctx context.Context, pageURL string, prefs models.Preferences) (*models.GenerationRun, error) {
	start := time.Now()

	if strings.TrimSpace(pageURL) == "" {
		return nil, fmt.Errorf("no URL provided")
	}

	prefs = s.resolvePreferences(prefs)
	logrus.Infof("Starting generation run for %s (%d platforms, source: %s)",
		pageURL, len(prefs.Platforms), s.source.Name())

	site, err := s.source.Extract(ctx, pageURL)
	if err != nil {
		s.recordError()
		return nil, fmt.Errorf("content extraction failed: %w", err)
	}

	posts, warnings := s.generatePosts(ctx, site, prefs)

	if len(posts) == 0 {
		s.recordError()
		return nil, fmt.Errorf("no posts could be generated: %s", strings.Join(warnings, "; "))
	}

	now := time.Now().UTC()
	run := &models.GenerationRun{
		ID:          archive.NewRunID(now),
		URL:         pageURL,
		Title:       site.Title,
		Preferences: prefs,
		Posts:       posts,
		Warnings:    warnings,
		GeneratedAt: now,
	}

	if err := s.archive.Save(run); err != nil {
		s.recordError()
		return nil, fmt.Errorf("failed to archive run: %w", err)
	}

	// Delivery is best-effort: the posts are already generated and archived,
	// a dead webhook must not fail the run.
	if err := s.delivery.SendRun(run); err != nil {
		logrus.Errorf("Failed to deliver run %s: %v", run.ID, err)
		s.recordError()
	}

	s.updateMetrics(run, time.Since(start))
	logrus.Infof("Generation run %s completed in %v (%d posts, %d warnings)",
		run.ID, time.Since(start), len(run.Posts), len(run.Warnings))

	return run, nil
}

// generatePosts fans out one generator call per platform and adapts each
// draft. Platform order in the result is stable regardless of which goroutine
// finishes first.
func (s *Service) generatePosts(ctx context.Context, site *models.WebsiteContent, prefs models.Preferences) ([]models.Post, []string) {
	var wg sync.WaitGroup
	postsChan := make(chan models.Post, len(prefs.Platforms))
	warningsChan := make(chan string, len(prefs.Platforms))

	for _, name := range prefs.Platforms {
		wg.Add(1)
		go func(platformName string) {
			defer wg.Done()

			spec, err := platform.SpecFor(platformName)
			if err != nil {
				warningsChan <- fmt.Sprintf("%s: %v", platformName, err)
				return
			}

			raw, err := s.generator.Generate(ctx, generator.Request{
				Content:  site,
				Platform: spec,
				Audience: prefs.Audience,
				Tone:     prefs.Tone,
			})
			if err != nil {
				logrus.Errorf("Generation for %s failed: %v", platformName, err)
				warningsChan <- fmt.Sprintf("%s: %v", platformName, err)
				return
			}

			post, err := platform.Adapt(raw, platformName, prefs.CustomHashtags)
			if err != nil {
				logrus.Errorf("Adapting draft for %s failed: %v", platformName, err)
				warningsChan <- fmt.Sprintf("%s: %v", platformName, err)
				return
			}

			postsChan <- post
		}(name)
	}

	go func() {
		wg.Wait()
		close(postsChan)
		close(warningsChan)
	}()

	var posts []models.Post
	for post := range postsChan {
		posts = append(posts, post)
	}

	var warnings []string
	for warning := range warningsChan {
		warnings = append(warnings, warning)
	}

	sortPosts(posts)
	sort.Strings(warnings)

	return posts, warnings
}

// resolvePreferences fills empty fields with the configured defaults and
// removes duplicate platform entries.
func (s *Service) resolvePreferences(prefs models.Preferences) models.Preferences {
	if strings.TrimSpace(prefs.Audience) == "" {
		prefs.Audience = s.config.DefaultAudience
	}
	if strings.TrimSpace(prefs.Tone) == "" {
		prefs.Tone = s.config.DefaultTone
	}
	if len(prefs.Platforms) == 0 {
		prefs.Platforms = s.config.Platforms
	}

	seen := make(map[string]bool, len(prefs.Platforms))
	unique := make([]string, 0, len(prefs.Platforms))
	for _, name := range prefs.Platforms {
		if seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	prefs.Platforms = unique

	return prefs
}

// sortPosts orders posts in the fixed display order of their platforms
func sortPosts(posts []models.Post) {
	order := make(map[string]int, len(platform.Names()))
	for i, name := range platform.Names() {
		order[name] = i
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return order[posts[i].Platform] < order[posts[j].Platform]
	})
}

func (s *Service) updateMetrics(run *models.GenerationRun, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.TotalRuns++
	s.metrics.TotalPosts += len(run.Posts)
	s.metrics.LastRun = run.GeneratedAt
	s.metrics.LastRunDuration = duration.String()

	for _, post := range run.Posts {
		s.metrics.PlatformMetrics[post.Platform]++
		if post.Truncated {
			s.metrics.TruncatedPosts++
		}
	}
	s.metrics.ErrorCount += len(run.Warnings)
}

func (s *Service) recordError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.ErrorCount++
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
