package catalog

// Provenance of a catalog row. Synced rows are owned by the sync job and keyed
// by ExternalProductID; manual rows are created through the admin panel and
// have no external id.
const (
	SourceSynced = "synced"
	SourceManual = "manual"
)

// Product is the normalized catalog row shared by the public catalog, the
// admin panel and the sync job. DescriptionHTML is stored exactly as the feed
// delivered it; unwrapping happens at render time (see RenderDescription).
type Product struct {
	ID                  string   `json:"id"`
	ExternalProductID   *int64   `json:"externalProductId,omitempty"`
	Name                string   `json:"name"`
	DescriptionHTML     string   `json:"descriptionHtml"`
	Price               float64  `json:"price"`
	CompareAtPrice      *float64 `json:"compareAtPrice,omitempty"`
	Images              []string `json:"images"`
	MainImage           *string  `json:"mainImage,omitempty"`
	IsActive            bool     `json:"isActive"`
	Source              string   `json:"source"`
	UpdatedFromSourceAt *string  `json:"updatedFromSourceAt,omitempty"`
	CreatedAt           string   `json:"createdAt,omitempty"`
	UpdatedAt           string   `json:"updatedAt,omitempty"`
}
