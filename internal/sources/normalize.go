package sources

import (
	"strings"

	"github.com/aa-remote/site/internal/domain"
)

// CatalogRecord is the source-agnostic record shape both feeds decode into
// before being tagged with their provenance.
type CatalogRecord struct {
	Title            string `json:"title"`
	Genre            string `json:"genre"`
	ReleaseDate      string `json:"release_date"`
	Platform         string `json:"platform"`
	Thumbnail        string `json:"thumbnail"`
	ShortDescription string `json:"short_description"`
}

// Normalize maps records into catalog items tagged with the given source.
// Absent optional fields become empty strings rather than being dropped so
// downstream code can rely on field presence. Records without a title are
// discarded.
func Normalize(records []CatalogRecord, tag domain.SourceTag) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, len(records))
	for _, rec := range records {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		items = append(items, domain.CatalogItem{
			Title:        title,
			Genre:        strings.TrimSpace(rec.Genre),
			ReleaseDate:  strings.TrimSpace(rec.ReleaseDate),
			Platform:     strings.TrimSpace(rec.Platform),
			ThumbnailURL: strings.TrimSpace(rec.Thumbnail),
			Description:  strings.TrimSpace(rec.ShortDescription),
			Source:       tag,
		})
	}
	return items
}
