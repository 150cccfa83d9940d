package schema

// LibraryFavoriteTable represents the 'favorites' table
type LibraryFavoriteTable struct {
	Table      string
	EntityType string
	EntityID   string
	Rating     string
	CreatedAt  string
	UpdatedAt  string
}

// LibraryFavorite is the schema definition for favorites
var LibraryFavorite = LibraryFavoriteTable{
	Table:      "favorites",
	EntityType: "entity_type",
	EntityID:   "entity_id",
	Rating:     "rating",
	CreatedAt:  "created_at",
	UpdatedAt:  "updated_at",
}

func (t LibraryFavoriteTable) Columns() []string {
	return []string{t.EntityType, t.EntityID, t.Rating, t.CreatedAt, t.UpdatedAt}
}
