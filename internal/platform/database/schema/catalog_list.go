package schema

// CatalogListTable represents the 'list' table
type CatalogListTable struct {
	Table           string
	ID              string
	Title           string
	Description     string
	DescriptionHTML string
	NumPages        string
	NumBooks        string
	NumVoters       string
	NumLikes        string
	NumComments     string
	CreatedDate     string
	Tags            string
	CreatedBy       string
	Books           string
}

// CatalogList is the schema definition for list
var CatalogList = CatalogListTable{
	Table:           "list",
	ID:              "id",
	Title:           "title",
	Description:     "description",
	DescriptionHTML: "description_html",
	NumPages:        "num_pages",
	NumBooks:        "num_books",
	NumVoters:       "num_voters",
	NumLikes:        "num_likes",
	NumComments:     "num_comments",
	CreatedDate:     "created_date",
	Tags:            "tags",
	CreatedBy:       "created_by",
	Books:           "books",
}

func (t CatalogListTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.DescriptionHTML, t.NumPages, t.NumBooks,
		t.NumVoters, t.NumLikes, t.NumComments, t.CreatedDate, t.Tags, t.CreatedBy, t.Books,
	}
}
