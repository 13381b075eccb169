package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/postforge/postforge/internal/archive"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/content"
	"github.com/postforge/postforge/internal/delivery"
	"github.com/postforge/postforge/internal/generator"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/pipeline"
	"github.com/postforge/postforge/internal/platform"
	"github.com/postforge/postforge/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	urlFlag := flag.String("url", "", "article URL to turn into posts (required)")
	audience := flag.String("audience", "", "target audience (defaults to DEFAULT_AUDIENCE)")
	tone := flag.String("tone", "", "content tone (defaults to DEFAULT_TONE)")
	platformsFlag := flag.String("platforms", "", "comma-separated platforms (defaults to PLATFORMS)")
	hashtagsFlag := flag.String("hashtags", "", "comma-separated custom hashtags")
	timeout := flag.Duration("timeout", 2*time.Minute, "generation timeout")
	flag.Parse()

	if *urlFlag == "" {
		fmt.Println("Usage: generate -url https://example.com/article [-audience ...] [-tone ...] [-platforms twitter,linkedin] [-hashtags \"#launch,#golang\"]")
		os.Exit(1)
	}

	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Keep the console output readable unless debugging
	logrus.SetLevel(logrus.WarnLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	store, err := newStorage(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to initialize storage: %v\n", err)
		os.Exit(1)
	}

	archiveService := archive.NewService(store)
	gen := generator.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.LLMTemperature, cfg.MaxContentChars)
	pipelineService := pipeline.NewService(cfg, newSource(cfg), gen, archiveService, delivery.NewService(cfg))

	prefs := models.Preferences{
		Audience:       *audience,
		Tone:           *tone,
		CustomHashtags: splitList(*hashtagsFlag),
		Platforms:      splitList(*platformsFlag),
	}

	fmt.Println("🤖 Postforge - Social Media Post Generator")
	fmt.Println("==========================================")
	fmt.Printf("🌐 Fetching %s...\n", *urlFlag)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	run, err := pipelineService.Run(ctx, *urlFlag, prefs)
	if err != nil {
		fmt.Printf("❌ Generation failed: %v\n", err)
		os.Exit(1)
	}

	printRun(run)

	if cfg.StorageAccount != "" {
		fmt.Printf("\n💾 Archived as run %s in Azure container %s\n", run.ID, cfg.StorageContainer)
	} else {
		fmt.Printf("\n💾 Archived as run %s under %s/\n", run.ID, cfg.OutputsDir)
	}
}

func printRun(run *models.GenerationRun) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("📣 GENERATED SOCIAL MEDIA POSTS")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("🔗 Source: %s\n", run.URL)
	if run.Title != "" {
		fmt.Printf("📰 Page: %s\n", run.Title)
	}
	fmt.Printf("🕒 Generated: %s\n", run.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Printf("👥 Audience: %s | 🎨 Tone: %s\n", run.Preferences.Audience, run.Preferences.Tone)

	for _, post := range run.Posts {
		marker := ""
		if post.Truncated {
			marker = " (shortened to fit)"
		}

		fmt.Println("\n" + strings.Repeat("-", 70))
		fmt.Printf("📱 %s [%d/%d characters]%s\n", platform.DisplayName(post.Platform), post.CharacterCount, post.CharacterLimit, marker)
		fmt.Println(strings.Repeat("-", 70))
		fmt.Println(post.Body)
		if len(post.Hashtags) > 0 {
			fmt.Printf("\n🏷  %s\n", strings.Join(post.Hashtags, " "))
		}
	}

	if len(run.Warnings) > 0 {
		fmt.Println("\n⚠️  Warnings:")
		for _, warning := range run.Warnings {
			fmt.Printf("   • %s\n", warning)
		}
	}
}

func newStorage(cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount != "" {
		return storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
	}
	return storage.NewLocalStorage(cfg.OutputsDir)
}

func newSource(cfg *config.Config) content.Source {
	if cfg.FirecrawlAPIKey != "" {
		return content.NewFirecrawlSource(cfg.FirecrawlAPIKey, cfg.FirecrawlBaseURL)
	}
	return content.NewBuiltinSource()
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	if len(values) == 0 {
		return nil
	}
	return values
}
