// Package catalog implements the aggregation and presentation pipeline: it
// merges the two game feeds, deduplicates, filters, sorts, and paginates into
// the exact slice a catalog page renders.
package catalog

import (
	"sort"
	"strings"

	"github.com/aa-remote/site/internal/domain"
)

// PageSize is fixed for the lifetime of a view.
const PageSize = 12

// DefaultExcludedKeywords flags non-mainline entries (demos, betas, special
// editions). The list is a heuristic; false positives are accepted and the
// policy is overridable rather than baked in.
var DefaultExcludedKeywords = []string{
	"demo", "beta", "alpha", "prototype", "test", "lite", "trial", "deluxe", "edition",
}

// ExclusionPolicy reports whether an item should be discarded before
// presentation.
type ExclusionPolicy func(domain.CatalogItem) bool

// DedupeKeyFunc derives the identity key used for first-wins deduplication.
type DedupeKeyFunc func(domain.CatalogItem) string

// KeywordExclusion builds the stock policy: discard any item whose lowercase
// title contains one of the given keywords.
func KeywordExclusion(keywords []string) ExclusionPolicy {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return func(item domain.CatalogItem) bool {
		title := strings.ToLower(item.Title)
		for _, kw := range lowered {
			if strings.Contains(title, kw) {
				return true
			}
		}
		return false
	}
}

// NormalizedTitle is the stock dedupe key: trimmed, lowercased title.
func NormalizedTitle(item domain.CatalogItem) string {
	return strings.ToLower(strings.TrimSpace(item.Title))
}

// Pipeline is a pure function of (source data, view state). It performs no
// I/O and never fails: empty input yields an empty page, not an error.
type Pipeline struct {
	exclude   ExclusionPolicy
	dedupeKey DedupeKeyFunc
	pageSize  int
}

// PipelineOption customises pipeline policies.
type PipelineOption func(*Pipeline)

// WithExclusionPolicy overrides the keyword exclusion predicate.
func WithExclusionPolicy(policy ExclusionPolicy) PipelineOption {
	return func(p *Pipeline) {
		if policy != nil {
			p.exclude = policy
		}
	}
}

// WithDedupeKey overrides the deduplication key function.
func WithDedupeKey(key DedupeKeyFunc) PipelineOption {
	return func(p *Pipeline) {
		if key != nil {
			p.dedupeKey = key
		}
	}
}

// WithPageSize overrides the page size, primarily for tests.
func WithPageSize(size int) PipelineOption {
	return func(p *Pipeline) {
		if size > 0 {
			p.pageSize = size
		}
	}
}

// NewPipeline constructs a pipeline with the stock policies.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		exclude:   KeywordExclusion(DefaultExcludedKeywords),
		dedupeKey: NormalizedTitle,
		pageSize:  PageSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// PageSize returns the configured page size.
func (p *Pipeline) PageSize() int { return p.pageSize }

// MergeDedupe concatenates remote before local and keeps the first occurrence
// per dedupe key. Later duplicates are discarded regardless of source, so a
// local entry loses a title collision against an earlier remote entry.
func (p *Pipeline) MergeDedupe(remote, local []domain.CatalogItem) []domain.CatalogItem {
	merged := make([]domain.CatalogItem, 0, len(remote)+len(local))
	seen := make(map[string]struct{}, len(remote)+len(local))

	for _, list := range [][]domain.CatalogItem{remote, local} {
		for _, item := range list {
			key := p.dedupeKey(item)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}
	return merged
}

// View runs the full pipeline over the two game feeds for the given state.
// The returned state has its page clamped to the filtered result.
func (p *Pipeline) View(remote, local []domain.CatalogItem, state ViewState) (domain.Page[domain.CatalogItem], ViewState) {
	items := p.MergeDedupe(remote, local)
	items = p.applyExclusion(items)
	items = filterSearch(items, state.Search)
	items = filterCategory(items, state.Category)
	p.sortItems(items, state.Sort)
	return p.paginate(items, &state)
}

func (p *Pipeline) applyExclusion(items []domain.CatalogItem) []domain.CatalogItem {
	kept := items[:0:0]
	for _, item := range items {
		if p.exclude(item) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// filterSearch keeps items whose title, description, or genre contains the
// query as a case-insensitive substring.
func filterSearch(items []domain.CatalogItem, query string) []domain.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return items
	}
	kept := items[:0:0]
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), query) ||
			strings.Contains(strings.ToLower(item.Description), query) ||
			strings.Contains(strings.ToLower(item.Genre), query) {
			kept = append(kept, item)
		}
	}
	return kept
}

// filterCategory keeps items whose genre equals the category exactly,
// case-insensitively. "All" keeps everything.
func filterCategory(items []domain.CatalogItem, category string) []domain.CatalogItem {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return items
	}
	kept := items[:0:0]
	for _, item := range items {
		if strings.EqualFold(item.Genre, category) {
			kept = append(kept, item)
		}
	}
	return kept
}

// sortItems orders items in place. Sorts are stable so ties not covered by a
// rule keep their merge order, which makes repeated runs deterministic.
func (p *Pipeline) sortItems(items []domain.CatalogItem, order domain.SortOrder) {
	switch order {
	case domain.SortOldest:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ReleaseTime().Before(items[j].ReleaseTime())
		})
	case domain.SortPopular:
		// The feed carries no popularity figure, so provenance stands in:
		// local (curated) entries rank above remote ones, ties by newest.
		sort.SliceStable(items, func(i, j int) bool {
			li, lj := items[i].Source == domain.SourceLocal, items[j].Source == domain.SourceLocal
			if li != lj {
				return li
			}
			return items[i].ReleaseTime().After(items[j].ReleaseTime())
		})
	default: // newest
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ReleaseTime().After(items[j].ReleaseTime())
		})
	}
}

func (p *Pipeline) paginate(items []domain.CatalogItem, state *ViewState) (domain.Page[domain.CatalogItem], ViewState) {
	total := len(items)
	totalPages := (total + p.pageSize - 1) / p.pageSize

	*state = state.ClampPage(totalPages)

	start := (state.Page - 1) * p.pageSize
	if start > total {
		start = total
	}
	end := start + p.pageSize
	if end > total {
		end = total
	}

	return domain.Page[domain.CatalogItem]{
		Items:      items[start:end],
		TotalPages: totalPages,
		TotalCount: total,
	}, *state
}

// ViewSoftware runs the presentation half of the pipeline over the fixed
// software catalog. There is nothing to merge or exclude; search, category,
// sort, and pagination behave as for games, except "popular" uses the
// explicit popularity score.
func (p *Pipeline) ViewSoftware(products []domain.SoftwareProduct, state ViewState) (domain.Page[domain.SoftwareProduct], ViewState) {
	items := filterSoftwareSearch(products, state.Search)
	items = filterSoftwareCategory(items, state.Category)
	sortSoftware(items, state.Sort)

	total := len(items)
	totalPages := (total + p.pageSize - 1) / p.pageSize
	state = state.ClampPage(totalPages)

	start := (state.Page - 1) * p.pageSize
	if start > total {
		start = total
	}
	end := start + p.pageSize
	if end > total {
		end = total
	}

	return domain.Page[domain.SoftwareProduct]{
		Items:      items[start:end],
		TotalPages: totalPages,
		TotalCount: total,
	}, state
}

func filterSoftwareSearch(products []domain.SoftwareProduct, query string) []domain.SoftwareProduct {
	query = strings.ToLower(strings.TrimSpace(query))
	kept := make([]domain.SoftwareProduct, 0, len(products))
	for _, product := range products {
		if query != "" &&
			!strings.Contains(strings.ToLower(product.Name), query) &&
			!strings.Contains(strings.ToLower(product.Description), query) &&
			!strings.Contains(strings.ToLower(product.Category), query) {
			continue
		}
		kept = append(kept, product)
	}
	return kept
}

func filterSoftwareCategory(products []domain.SoftwareProduct, category string) []domain.SoftwareProduct {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return products
	}
	kept := products[:0:0]
	for _, product := range products {
		if strings.EqualFold(product.Category, category) {
			kept = append(kept, product)
		}
	}
	return kept
}

func sortSoftware(products []domain.SoftwareProduct, order domain.SortOrder) {
	switch order {
	case domain.SortOldest:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ReleaseYear < products[j].ReleaseYear
		})
	case domain.SortPopular:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Popularity > products[j].Popularity
		})
	default: // newest
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].ReleaseYear > products[j].ReleaseYear
		})
	}
}
