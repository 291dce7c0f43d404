package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/makanlah/backend/internal/models"
)

// embeddingDimensions is the dimension of the menu_items embedding column.
// Remote vectors of any other size are rejected; they would fail the
// pgvector dimension check at insert time.
const embeddingDimensions = 3

// EmbeddingService calls the external image/text embedding microservice.
// When the service is unconfigured, down, or returns a vector that does not
// fit the column, it degrades to a deterministic local vector, so menu
// writes never fail on a collaborator outage.
type EmbeddingService struct {
	baseURL string
	client  *http.Client
}

func NewEmbeddingService(baseURL string) *EmbeddingService {
	return &EmbeddingService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type embeddingRequest struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (s *EmbeddingService) GenerateEmbedding(ctx context.Context, text string) (models.Embedding, error) {
	if s.baseURL == "" {
		return LocalEmbedding(text), nil
	}

	vec, err := s.remoteEmbedding(ctx, text)
	if err != nil {
		log.Printf("[Embedding] remote call failed, using local fallback: %v", err)
		return LocalEmbedding(text), nil
	}
	return vec, nil
}

func (s *EmbeddingService) remoteEmbedding(ctx context.Context, text string) (models.Embedding, error) {
	body, err := json.Marshal(embeddingRequest{Text: text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embed", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding service returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Embedding) != embeddingDimensions {
		return nil, fmt.Errorf("embedding service returned %d dimensions, column holds %d",
			len(parsed.Embedding), embeddingDimensions)
	}
	return models.Embedding(parsed.Embedding), nil
}

// LocalEmbedding returns a simple deterministic embedding for the given
// text: total length, vowels and consonants.
func LocalEmbedding(text string) models.Embedding {
	text = strings.ToLower(text)
	var vowels, consonants float32
	for _, r := range text {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		} else if r >= 'a' && r <= 'z' {
			consonants++
		}
	}
	return models.Embedding{float32(len(text)), vowels, consonants}
}
