package author

import (
	"context"
	"log/slog"

	"github.com/taibuivan/biblioteca/internal/platform/cache"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
	"github.com/taibuivan/biblioteca/pkg/pagination"
	"github.com/taibuivan/biblioteca/pkg/search"
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

func (service *Service) ListAuthors(ctx context.Context, filter Filter) ([]Author, cache.Status, error) {
	return cache.Fetch(ctx, service.cache, filter.CacheKey(), func(ctx context.Context) ([]Author, error) {
		return service.repo.ListAuthors(ctx, filter)
	})
}

// SearchAuthors returns up to ten authors whose name contains every token of term.
func (service *Service) SearchAuthors(ctx context.Context, term string) ([]Author, cache.Status, error) {
	tokens := search.Tokens(term)
	if len(tokens) == 0 {
		return nil, cache.StatusBypass, validate.RequiredError(ParamTerm, "Search term must not be blank")
	}

	return cache.Fetch(ctx, service.cache, searchKey(tokens), func(ctx context.Context) ([]Author, error) {
		return service.repo.SearchAuthors(ctx, tokens, pagination.SuggestionLimit)
	})
}
