package categories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/agentmart/agentmart-backend/pkg/db/models"
	pkgerrors "github.com/agentmart/agentmart-backend/pkg/errors"
	"github.com/agentmart/agentmart-backend/pkg/logger"
	"github.com/agentmart/agentmart-backend/pkg/metrics"
)

const cacheName = "categories"

// CategoryDTO is the public shape for one category.
type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type lister interface {
	ListOrderedByName(ctx context.Context) ([]models.Category, error)
}

type cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(name string) string
}

// Service serves the category list through a short-lived cache.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
}

// ServiceParams groups dependencies for the categories service.
type ServiceParams struct {
	Repo     lister
	Cache    cache
	CacheTTL time.Duration
	Logger   *logger.Logger
	Metrics  *metrics.HTTPMetrics
}

type service struct {
	repo     lister
	cache    cache
	cacheTTL time.Duration
	logg     *logger.Logger
	metrics  *metrics.HTTPMetrics
}

// NewService wires the categories dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "categories repository required")
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{
		repo:     params.Repo,
		cache:    params.Cache,
		cacheTTL: ttl,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// List returns all categories ordered by name. Within the cache window
// repeated calls serve the cached payload without touching the database;
// the query duration is logged only on a miss.
func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	if s.cache != nil {
		key := s.cache.CacheKey(cacheName)
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached []CategoryDTO
			if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
				s.metrics.IncCatalogHit()
				return cached, nil
			}
		} else if !errors.Is(err, redislib.Nil) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "cache_key", key), "categories cache read failed")
		}
	}

	start := time.Now()
	rows, err := s.repo.ListOrderedByName(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	elapsed := time.Since(start)

	s.metrics.IncCatalogMiss()
	s.metrics.ObserveCatalogQuery(elapsed)
	if s.logg != nil {
		ctx := s.logg.WithFields(ctx, map[string]any{
			"query_duration_ms": elapsed.Milliseconds(),
			"count":             len(rows),
		})
		s.logg.Info(ctx, "categories.query")
	}

	dtos := make([]CategoryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, CategoryDTO{ID: row.ID, Name: row.Name, Slug: row.Slug})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(dtos); err == nil {
			if err := s.cache.Set(ctx, s.cache.CacheKey(cacheName), string(payload), s.cacheTTL); err != nil && s.logg != nil {
				s.logg.Warn(ctx, "categories cache write failed")
			}
		}
	}

	return dtos, nil
}
