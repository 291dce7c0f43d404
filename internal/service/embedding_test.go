package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makanlah/backend/internal/models"
	"github.com/makanlah/backend/internal/service"
)

func TestLocalEmbedding(t *testing.T) {
	vec := service.LocalEmbedding("laksa")
	// length 5, vowels 2 (a, a), consonants 3 (l, k, s)
	assert.Equal(t, models.Embedding{5, 2, 3}, vec)
}

func TestGenerateEmbeddingRemote(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embed", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"embedding":[1.5,2.5,3.5]}`)
	}))
	defer ts.Close()

	svc := service.NewEmbeddingService(ts.URL)
	vec, err := svc.GenerateEmbedding(context.Background(), "laksa")
	require.NoError(t, err)
	assert.Equal(t, models.Embedding{1.5, 2.5, 3.5}, vec)
}

func TestGenerateEmbeddingFallsBackOnFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	svc := service.NewEmbeddingService(ts.URL)
	vec, err := svc.GenerateEmbedding(context.Background(), "laksa")
	require.NoError(t, err)
	assert.Equal(t, service.LocalEmbedding("laksa"), vec)
}

// A remote vector whose dimension does not match the embedding column must
// not reach the database; it falls back to the local vector instead.
func TestGenerateEmbeddingRejectsWrongDimension(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"embedding":[0.1,0.2,0.3,0.4,0.5,0.6,0.7,0.8]}`)
	}))
	defer ts.Close()

	svc := service.NewEmbeddingService(ts.URL)
	vec, err := svc.GenerateEmbedding(context.Background(), "char kway teow")
	require.NoError(t, err)
	assert.Equal(t, service.LocalEmbedding("char kway teow"), vec)
}

func TestGenerateEmbeddingUnconfigured(t *testing.T) {
	svc := service.NewEmbeddingService("")
	vec, err := svc.GenerateEmbedding(context.Background(), "mee goreng")
	require.NoError(t, err)
	assert.Equal(t, service.LocalEmbedding("mee goreng"), vec)
}
