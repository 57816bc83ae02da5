package schema

// SiteImagesTable represents the 'site_images' table
type SiteImagesTable struct {
	Table        string
	ID           string
	Title        string
	Subtitle     string
	Description  string
	FilePath     string
	ExternalURL  string
	Section      string
	Category     string
	Active       string
	DisplayOrder string
	CreatedAt    string
	UpdatedAt    string
}

// SiteImages is the schema definition for site_images
var SiteImages = SiteImagesTable{
	Table:        "site_images",
	ID:           "id",
	Title:        "title",
	Subtitle:     "subtitle",
	Description:  "description",
	FilePath:     "file_path",
	ExternalURL:  "external_url",
	Section:      "section",
	Category:     "category",
	Active:       "active",
	DisplayOrder: "display_order",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

func (t SiteImagesTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Subtitle, t.Description, t.FilePath, t.ExternalURL,
		t.Section, t.Category, t.Active, t.DisplayOrder, t.CreatedAt, t.UpdatedAt,
	}
}
