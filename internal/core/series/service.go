package series

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
	"github.com/taibuivan/biblioteca/pkg/pagination"
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

// SearchSeries returns up to ten series whose title contains term.
func (service *Service) SearchSeries(ctx context.Context, term string) ([]Series, cache.Status, error) {
	if strings.TrimSpace(term) == "" {
		return nil, cache.StatusBypass, validate.RequiredError(ParamSearch, "Search term must not be blank")
	}

	return cache.Fetch(ctx, service.cache, searchKey(term), func(ctx context.Context) ([]Series, error) {
		return service.repo.SearchSeries(ctx, term, pagination.SuggestionLimit)
	})
}
