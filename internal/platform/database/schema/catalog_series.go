package schema

// CatalogSeriesTable represents the 'series' table
type CatalogSeriesTable struct {
	Table            string
	ID               string
	Title            string
	Description      string
	SeriesWorksCount string
	Works            string
}

// CatalogSeries is the schema definition for series
var CatalogSeries = CatalogSeriesTable{
	Table:            "series",
	ID:               "id",
	Title:            "title",
	Description:      "description",
	SeriesWorksCount: "series_works_count",
	Works:            "works",
}

func (t CatalogSeriesTable) Columns() []string {
	return []string{t.ID, t.Title, t.Description, t.SeriesWorksCount, t.Works}
}
