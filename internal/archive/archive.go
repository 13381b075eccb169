package archive

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/platform"
	"github.com/postforge/postforge/internal/storage"
)

const (
	filePrefix  = "social_media_posts_"
	runIDLayout = "20060102_150405"
)

var runIDPattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

// Service renders generation runs to markdown and JSON and keeps them in a
// storage backend.
type Service struct {
	storage storage.StorageInterface
}

// NewService creates an archive backed by the given storage
func NewService(store storage.StorageInterface) *Service {
	return &Service{storage: store}
}

// NewRunID derives a run identifier from its generation time
func NewRunID(t time.Time) string {
	return t.UTC().Format(runIDLayout)
}

// Save stores a run as a markdown file plus a JSON sidecar
func (s *Service) Save(run *models.GenerationRun) error {
	if run.ID == "" {
		return fmt.Errorf("run has no ID")
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}

	if err := s.storage.Store(jsonName(run.ID), data); err != nil {
		return fmt.Errorf("failed to store run %s: %w", run.ID, err)
	}

	if err := s.storage.Store(markdownName(run.ID), renderMarkdown(run)); err != nil {
		return fmt.Errorf("failed to store markdown for run %s: %w", run.ID, err)
	}

	logrus.Infof("Archived run %s (%d posts)", run.ID, len(run.Posts))
	return nil
}

// List returns all archived runs, newest first
func (s *Service) List() ([]models.GenerationRun, error) {
	names, err := s.storage.List(filePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list archive: %w", err)
	}

	var runs []models.GenerationRun
	for _, name := range names {
		if !strings.HasSuffix(name, ".json") {
			continue
		}

		data, err := s.storage.Retrieve(name)
		if err != nil {
			logrus.Errorf("Failed to read archived run %s: %v", name, err)
			continue
		}

		var run models.GenerationRun
		if err := json.Unmarshal(data, &run); err != nil {
			logrus.Errorf("Failed to decode archived run %s: %v", name, err)
			continue
		}

		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ID > runs[j].ID
	})

	return runs, nil
}

// Load returns one archived run by ID
func (s *Service) Load(id string) (*models.GenerationRun, error) {
	if !runIDPattern.MatchString(id) {
		return nil, fmt.Errorf("invalid run ID %q", id)
	}

	data, err := s.storage.Retrieve(jsonName(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", id, err)
	}

	var run models.GenerationRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to decode run %s: %w", id, err)
	}

	return &run, nil
}

// LoadMarkdown returns the rendered markdown of an archived run
func (s *Service) LoadMarkdown(id string) ([]byte, error) {
	if !runIDPattern.MatchString(id) {
		return nil, fmt.Errorf("invalid run ID %q", id)
	}

	data, err := s.storage.Retrieve(markdownName(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load markdown for run %s: %w", id, err)
	}

	return data, nil
}

// Cleanup deletes runs older than the retention window. A retention of zero
// or less keeps everything. Returns the number of removed runs.
func (s *Service) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	names, err := s.storage.List(filePrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list archive: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	removed := make(map[string]bool)

	for _, name := range names {
		id, ok := runIDFromName(name)
		if !ok {
			continue
		}

		ts, err := time.Parse(runIDLayout, id)
		if err != nil {
			continue
		}

		if !ts.Before(cutoff) {
			continue
		}

		if err := s.storage.Delete(name); err != nil {
			return len(removed), fmt.Errorf("failed to delete %s: %w", name, err)
		}
		removed[id] = true
	}

	if len(removed) > 0 {
		logrus.Infof("Archive cleanup removed %d runs older than %d days", len(removed), retentionDays)
	}

	return len(removed), nil
}

// MarkdownFilename returns the download filename for a run's markdown document
func MarkdownFilename(id string) string {
	return markdownName(id)
}

func markdownName(id string) string {
	return filePrefix + id + ".md"
}

func jsonName(id string) string {
	return filePrefix + id + ".json"
}

func runIDFromName(name string) (string, bool) {
	id := strings.TrimPrefix(name, filePrefix)
	id = strings.TrimSuffix(id, ".json")
	id = strings.TrimSuffix(id, ".md")

	if !runIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

// renderMarkdown lays the run out the way the console exporter always has:
// header block, then one section per platform with the post body fenced.
func renderMarkdown(run *models.GenerationRun) []byte {
	var sb strings.Builder

	sb.WriteString("# Generated Social Media Posts\n\n")
	fmt.Fprintf(&sb, "**Source URL:** %s\n\n", run.URL)
	if run.Title != "" {
		fmt.Fprintf(&sb, "**Page Title:** %s\n\n", run.Title)
	}
	fmt.Fprintf(&sb, "**Generated at:** %s\n\n", run.GeneratedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "**Target Audience:** %s\n", run.Preferences.Audience)
	fmt.Fprintf(&sb, "**Content Tone:** %s\n\n", run.Preferences.Tone)

	sb.WriteString("## Generated Posts\n\n")

	for _, post := range run.Posts {
		fmt.Fprintf(&sb, "### %s\n\n", platform.DisplayName(post.Platform))
		sb.WriteString("```\n")
		sb.WriteString(post.Body)
		sb.WriteString("\n```\n\n")

		if len(post.Hashtags) > 0 {
			sb.WriteString("**Hashtags:** ")
			sb.WriteString(strings.Join(post.Hashtags, " "))
			sb.WriteString("\n\n")
		}

		if post.Truncated {
			fmt.Fprintf(&sb, "_Shortened to fit the %d character limit._\n\n", post.CharacterLimit)
		}
	}

	if len(run.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, warning := range run.Warnings {
			fmt.Fprintf(&sb, "- %s\n", warning)
		}
	}

	return []byte(sb.String())
}
