package domain

import (
	"strings"
	"time"
)

// SourceTag identifies which upstream a catalog item came from. It doubles as
// the popularity tie-break for merged game data: local entries rank above
// remote ones because they are curated.
type SourceTag string

const (
	SourceRemote SourceTag = "remote"
	SourceLocal  SourceTag = "local"
)

// Collection selects which product set a catalog view operates on.
type Collection string

const (
	CollectionSoftware Collection = "software"
	CollectionGame     Collection = "game"
)

// ParseCollection maps a raw query value to a Collection, falling back to
// software for anything unrecognised.
func ParseCollection(raw string) Collection {
	switch Collection(strings.ToLower(strings.TrimSpace(raw))) {
	case CollectionGame:
		return CollectionGame
	default:
		return CollectionSoftware
	}
}

// SortOrder enumerates the supported catalog sort criteria.
type SortOrder string

const (
	SortNewest  SortOrder = "newest"
	SortOldest  SortOrder = "oldest"
	SortPopular SortOrder = "popular"
)

// ParseSortOrder maps a raw query value to a SortOrder, falling back to
// newest for anything unrecognised.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(strings.ToLower(strings.TrimSpace(raw))) {
	case SortOldest:
		return SortOldest
	case SortPopular:
		return SortPopular
	default:
		return SortNewest
	}
}

// CatalogItem is the unified shape both game sources normalise into before
// entering the aggregation pipeline.
type CatalogItem struct {
	Title        string    `json:"title"`
	Genre        string    `json:"genre"`
	ReleaseDate  string    `json:"release_date"` // ISO-8601 date, empty when the source had none
	Platform     string    `json:"platform"`
	ThumbnailURL string    `json:"thumbnail"`
	Description  string    `json:"short_description"`
	Source       SourceTag `json:"source"`
}

// ReleaseTime parses the release date for sorting. Missing or unparseable
// dates collapse to the Unix epoch so they sort last under "newest" and
// first under "oldest".
func (i CatalogItem) ReleaseTime() time.Time {
	raw := strings.TrimSpace(i.ReleaseDate)
	if raw == "" {
		return time.Unix(0, 0).UTC()
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC()
		}
	}
	return time.Unix(0, 0).UTC()
}

// SoftwareRequirements lists per-platform system requirements.
type SoftwareRequirements struct {
	Windows string `json:"windows,omitempty"`
	Mac     string `json:"mac,omitempty"`
}

// SoftwareProduct is an entry of the fixed software catalog. Unlike game
// data it carries an explicit popularity score and structured platforms.
type SoftwareProduct struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Requirements SoftwareRequirements `json:"requirements"`
	Platforms    []string             `json:"platforms"`
	Category     string               `json:"category"`
	ReleaseYear  int                  `json:"release_year"`
	Popularity   int                  `json:"popularity"`
}

// Page is one slice of a filtered, sorted result set.
type Page[T any] struct {
	Items      []T
	TotalPages int
	TotalCount int
}
