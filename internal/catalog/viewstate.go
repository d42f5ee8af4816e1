package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/aa-remote/site/internal/domain"
)

// CategoryAll is the sentinel category that disables category filtering.
const CategoryAll = "All"

// Query parameter names for view state round-tripping.
const (
	paramTab      = "tab"
	paramCategory = "category"
	paramSearch   = "search"
	paramSort     = "sort"
	paramPage     = "page"
)

// ViewState is the complete description of what a catalog page shows. It
// round-trips through URL query parameters so any view is shareable and
// reload-stable.
type ViewState struct {
	Collection domain.Collection
	Category   string
	Search     string
	Sort       domain.SortOrder
	Page       int
}

// DefaultViewState is the landing view.
func DefaultViewState() ViewState {
	return ViewState{
		Collection: domain.CollectionSoftware,
		Category:   CategoryAll,
		Search:     "",
		Sort:       domain.SortNewest,
		Page:       1,
	}
}

// ParseViewState decodes a query into a state. Unknown or malformed values
// fall back to their defaults per field; a bad page never fails the whole
// parse.
func ParseViewState(query url.Values) ViewState {
	state := DefaultViewState()

	state.Collection = domain.ParseCollection(query.Get(paramTab))
	state.Sort = domain.ParseSortOrder(query.Get(paramSort))
	state.Search = strings.TrimSpace(query.Get(paramSearch))

	if category := strings.TrimSpace(query.Get(paramCategory)); category != "" {
		state.Category = category
	}

	if raw := query.Get(paramPage); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			state.Page = page
		}
	}

	return state
}

// Encode serialises the state omitting default-valued fields, so the default
// view is the bare path and Encode(ParseViewState(q)) is idempotent.
func (s ViewState) Encode() url.Values {
	defaults := DefaultViewState()
	query := url.Values{}

	if s.Collection != defaults.Collection {
		query.Set(paramTab, string(s.Collection))
	}
	if !strings.EqualFold(s.Category, defaults.Category) && strings.TrimSpace(s.Category) != "" {
		query.Set(paramCategory, s.Category)
	}
	if s.Search != "" {
		query.Set(paramSearch, s.Search)
	}
	if s.Sort != defaults.Sort {
		query.Set(paramSort, string(s.Sort))
	}
	if s.Page > 1 {
		query.Set(paramPage, strconv.Itoa(s.Page))
	}
	return query
}

// WithCollection switches collection and resets pagination. The other
// filters persist across the switch.
func (s ViewState) WithCollection(collection domain.Collection) ViewState {
	s.Collection = collection
	s.Page = 1
	return s
}

// WithCategory changes the category filter and resets pagination.
func (s ViewState) WithCategory(category string) ViewState {
	category = strings.TrimSpace(category)
	if category == "" {
		category = CategoryAll
	}
	s.Category = category
	s.Page = 1
	return s
}

// WithSort changes the sort order and resets pagination.
func (s ViewState) WithSort(order domain.SortOrder) ViewState {
	s.Sort = order
	s.Page = 1
	return s
}

// WithSearch changes the search query. The page deliberately persists; the
// pipeline clamps it against the narrowed result instead.
func (s ViewState) WithSearch(query string) ViewState {
	s.Search = strings.TrimSpace(query)
	return s
}

// WithPage moves to the given page. Values below 1 snap to 1; the upper
// bound is enforced at render time against the actual result.
func (s ViewState) WithPage(page int) ViewState {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}

// ClampPage bounds the page to [1, max(1, totalPages)].
func (s ViewState) ClampPage(totalPages int) ViewState {
	if totalPages < 1 {
		totalPages = 1
	}
	if s.Page > totalPages {
		s.Page = totalPages
	}
	if s.Page < 1 {
		s.Page = 1
	}
	return s
}
