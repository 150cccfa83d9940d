package schema

// CatalogAuthorTable represents the 'authors' table
type CatalogAuthorTable struct {
	Table         string
	ID            string
	Name          string
	ImageURL      string
	FansCount     string
	AverageRating string
	RatingsCount  string
}

// CatalogAuthor is the schema definition for authors
var CatalogAuthor = CatalogAuthorTable{
	Table:         "authors",
	ID:            "id",
	Name:          "name",
	ImageURL:      "image_url",
	FansCount:     "fans_count",
	AverageRating: "average_rating",
	RatingsCount:  "ratings_count",
}

func (t CatalogAuthorTable) Columns() []string {
	return []string{t.ID, t.Name, t.ImageURL, t.FansCount, t.AverageRating, t.RatingsCount}
}
