package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cinema-reserve/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Movie is the read-only view of a catalog entry. The catalog is never
// mutated from this service.
type Movie struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	PosterURL      string    `json:"poster_url"`
	Genre          string    `json:"genre"`
	RuntimeMinutes int       `json:"runtime_minutes"`
}

type CatalogClient interface {
	// FindMovie returns nil, nil when the catalog has no such movie.
	FindMovie(ctx context.Context, id uuid.UUID) (*Movie, error)
}

type catalogClient struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewCatalogClient(config utils.CatalogConfig, log *zap.Logger) CatalogClient {
	return &catalogClient{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		client: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		log: log.With(zap.String("gateway", "catalog")),
	}
}

func (c *catalogClient) FindMovie(ctx context.Context, id uuid.UUID) (*Movie, error) {
	endpoint := fmt.Sprintf("%s/movies/%s", c.baseURL, id.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("Catalog unreachable",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("query catalog for movie %s: %w", id.String(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog status %d for movie %s", resp.StatusCode, id.String())
	}

	var movie Movie
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return nil, fmt.Errorf("decode catalog movie %s: %w", id.String(), err)
	}

	return &movie, nil
}
