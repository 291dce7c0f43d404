package service

import (
	"context"

	"github.com/makanlah/backend/internal/models"
)

// EmbeddingServiceInterface generates embedding vectors for menu text.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) (models.Embedding, error)
}
