package favorite

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/biblioteca/internal/platform/apperr"
	"github.com/taibuivan/biblioteca/internal/platform/validate"
)

/*
Service applies the favorites read-modify-write rules.

Every mutation reads before it writes: a save checks for the key first and reports an
existing key as a duplicate notice, and a delete re-counts the key afterwards. The
unique index on (entity_type, entity_id) keeps concurrent saves from creating a second
row; the loser of that race is reported as a duplicate too.
*/
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (service *Service) timestamp() string {
	return service.now().UTC().Format(time.RFC3339Nano)
}

// validateKey checks type and id and returns the parsed key.
func validateKey(validator *validate.Validator, rawType string, id EntityID) Key {
	kind, ok := ParseKind(rawType)
	switch {
	case rawType == "":
		validator.Custom(FieldType, true, "This field is required")
	case !ok:
		validator.OneOf(FieldType, rawType, KindNames()...)
	}
	validator.Required(FieldFavoriteID, string(id))
	return Key{Kind: kind, ID: id}
}

// Save stores a new favorite. Saving an existing key writes nothing.
func (service *Service) Save(ctx context.Context, input SaveInput) (SaveResult, error) {
	validator := &validate.Validator{}
	key := validateKey(validator, input.Type, input.FavoriteID)
	validator.Rating(FieldRating, input.Rating)
	if err := validator.Err(); err != nil {
		return SaveResult{}, err
	}

	exists, err := service.repo.Exists(ctx, key)
	if err != nil {
		return SaveResult{}, err
	}
	if exists {
		return service.duplicate(ctx, key), nil
	}

	stamp := service.timestamp()
	favorite := Favorite{Type: key.Kind, ID: key.ID, Rating: input.Rating, CreatedAt: stamp, UpdatedAt: stamp}

	inserted, err := service.repo.Insert(ctx, favorite)
	if err != nil {
		return SaveResult{}, err
	}
	if !inserted {
		return service.duplicate(ctx, key), nil
	}

	service.logger.InfoContext(ctx, "favorite_saved",
		slog.String("type", string(key.Kind)),
		slog.String("favorite_id", string(key.ID)),
		slog.Bool("rated", input.Rating != nil),
	)
	return SaveResult{Saved: true, Message: "Favorite saved", Favorite: &favorite}, nil
}

func (service *Service) duplicate(ctx context.Context, key Key) SaveResult {
	service.logger.InfoContext(ctx, "favorite_duplicate",
		slog.String("type", string(key.Kind)),
		slog.String("favorite_id", string(key.ID)),
	)
	return SaveResult{Duplicate: true, Message: "Favorite already saved"}
}

// Update replaces the rating of an existing favorite. A nil rating clears it.
func (service *Service) Update(ctx context.Context, input UpdateInput) (UpdateResult, error) {
	validator := &validate.Validator{}
	key := validateKey(validator, input.Type, input.FavoriteID)
	validator.Rating(FieldRating, input.Rating)
	if err := validator.Err(); err != nil {
		return UpdateResult{}, err
	}

	stamp := service.timestamp()
	affected, err := service.repo.UpdateRating(ctx, key, input.Rating, stamp)
	if err != nil {
		return UpdateResult{}, err
	}

	service.logger.InfoContext(ctx, "favorite_updated",
		slog.String("type", string(key.Kind)),
		slog.String("favorite_id", string(key.ID)),
		slog.Int64("rows_affected", affected),
	)

	switch {
	case affected == 0:
		return UpdateResult{}, apperr.NotFound("Favorite")
	case affected > 1:
		return UpdateResult{}, apperr.ConsistencyCheck(
			fmt.Sprintf("Rating update matched %d favorites", affected), nil)
	}

	favorite, err := service.repo.Get(ctx, key)
	if err != nil {
		return UpdateResult{}, err
	}
	if favorite == nil {
		return UpdateResult{}, apperr.ConsistencyCheck("Updated favorite could not be read back", nil)
	}

	return UpdateResult{Updated: affected, Message: "Rating updated", Favorite: *favorite}, nil
}

// Delete removes a favorite and verifies that no row is left for its key.
//
// rawType comes from the path and may be singular or plural. It is validated before
// the store is touched.
func (service *Service) Delete(ctx context.Context, rawType, rawID string) (DeleteResult, error) {
	kind, ok := ParseKind(rawType)
	if !ok {
		return DeleteResult{}, validate.Invalid(FieldType,
			fmt.Sprintf("Unknown favorite type %q", rawType))
	}

	id := CanonicalID(rawID)
	switch {
	case id == "":
		return DeleteResult{}, validate.RequiredError(DeleteIDParam(rawType), "This field is required")
	case !id.IsNumeric():
		return DeleteResult{}, validate.Invalid(DeleteIDParam(rawType), "Must be an integer")
	}

	key := Key{Kind: kind, ID: id}
	removed, err := service.repo.Delete(ctx, key)
	if err != nil {
		return DeleteResult{}, err
	}

	remaining, err := service.repo.Count(ctx, key)
	if err != nil {
		return DeleteResult{}, err
	}
	if remaining != 0 {
		service.logger.ErrorContext(ctx, "favorite_delete_unverified",
			slog.String("type", string(kind)),
			slog.String("favorite_id", string(id)),
			slog.Int64("rows_affected", removed),
			slog.Int64("remaining", remaining),
		)
		return DeleteResult{}, apperr.ConsistencyCheck("Favorite still present after delete", nil)
	}

	service.logger.InfoContext(ctx, "favorite_deleted",
		slog.String("type", string(kind)),
		slog.String("favorite_id", string(id)),
		slog.Int64("rows_affected", removed),
	)

	message := "Favorite deleted"
	if removed == 0 {
		message = "Favorite was not saved"
	}
	return DeleteResult{Removed: removed, Message: message}, nil
}

// All returns every favorite ordered by type then id.
func (service *Service) All(ctx context.Context) ([]Favorite, error) {
	return service.repo.ListAll(ctx)
}

func (service *Service) Authors(ctx context.Context) ([]Author, error) {
	return service.repo.ListAuthors(ctx)
}

func (service *Service) Books(ctx context.Context) ([]Book, error) {
	return service.repo.ListBooks(ctx)
}

func (service *Service) Lists(ctx context.Context) ([]List, error) {
	return service.repo.ListLists(ctx)
}

func (service *Service) Series(ctx context.Context) ([]Series, error) {
	return service.repo.ListSeries(ctx)
}
