package content

import (
	"context"

	"github.com/postforge/postforge/internal/models"
)

// Source interface defines the contract for all content extractors
type Source interface {
	Name() string
	IsConfigured() bool
	Extract(ctx context.Context, pageURL string) (*models.WebsiteContent, error)
}
