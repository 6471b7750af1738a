package models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/legistyr/termbench/internal/openrouter"
)

// Lister fetches the model catalog. The catalog endpoint is OpenAI
// compatible, so the stock client does the legwork.
type Lister struct {
	client *openai.Client
}

// NewLister creates a Lister for the public API.
func NewLister(apiKey string) *Lister {
	return NewListerWithBaseURL(apiKey, openrouter.DefaultBaseURL)
}

// NewListerWithBaseURL creates a Lister against a custom API root.
func NewListerWithBaseURL(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &Lister{client: openai.NewClientWithConfig(cfg)}
}

// List returns the available model identifiers, sorted. A non-empty filter
// keeps only identifiers containing it, e.g. "openai/" or "free".
func (l *Lister) List(ctx context.Context, filter string) ([]string, error) {
	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	ids := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		if filter != "" && !strings.Contains(model.ID, filter) {
			continue
		}
		ids = append(ids, model.ID)
	}
	sort.Strings(ids)
	return ids, nil
}
