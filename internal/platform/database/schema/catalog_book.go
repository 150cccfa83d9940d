package schema

// CatalogBookTable represents the 'books' table.
// Several rows share a WorkID, one per edition or language variant.
type CatalogBookTable struct {
	Table         string
	BookID        string
	WorkID        string
	Title         string
	AuthorName    string
	AverageRating string
	NumPages      string
	ImageURL      string
	RatingsCount  string
	Language      string
}

// CatalogBook is the schema definition for books
var CatalogBook = CatalogBookTable{
	Table:         "books",
	BookID:        "book_id",
	WorkID:        "work_id",
	Title:         "title",
	AuthorName:    "author_name",
	AverageRating: "average_rating",
	NumPages:      "num_pages",
	ImageURL:      "image_url",
	RatingsCount:  "ratings_count",
	Language:      "language",
}

func (t CatalogBookTable) Columns() []string {
	return []string{t.BookID, t.WorkID, t.Title, t.AuthorName, t.AverageRating, t.NumPages, t.ImageURL, t.RatingsCount, t.Language}
}
