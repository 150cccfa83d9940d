package booklist

import (
	"context"
	"log/slog"

	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/cache"
)

type Service struct {
	repo   Repository
	cache  cache.Cache
	logger *slog.Logger
}

func NewService(repo Repository, catalogCache cache.Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  catalogCache,
		logger: logger,
	}
}

func (service *Service) ListLists(ctx context.Context, filter Filter) ([]List, cache.Status, error) {
	return cache.Fetch(ctx, service.cache, filter.CacheKey(), func(ctx context.Context) ([]List, error) {
		return service.repo.ListLists(ctx, filter)
	})
}

// GetList returns one list or a NOT_FOUND error. Misses are not cached.
func (service *Service) GetList(ctx context.Context, id int64) (*List, cache.Status, error) {
	list, status, err := cache.Fetch(ctx, service.cache, detailKey(id), func(ctx context.Context) (*List, error) {
		list, err := service.repo.GetList(ctx, id)
		if err != nil {
			return nil, err
		}
		if list == nil {
			return nil, apperr.NotFound("List")
		}
		return list, nil
	})
	if err != nil {
		return nil, status, err
	}
	return list, status, nil
}
