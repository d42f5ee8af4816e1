package catalog

import (
	"net/url"
	"testing"

	"github.com/aa-remote/site/internal/domain"
)

func TestParseViewStateDefaults(t *testing.T) {
	state := ParseViewState(url.Values{})
	want := DefaultViewState()
	if state != want {
		t.Fatalf("empty query should parse to defaults, got %+v", state)
	}
}

func TestParseViewStateFields(t *testing.T) {
	query := url.Values{
		"tab":      {"game"},
		"category": {"Shooter"},
		"search":   {"  valorant "},
		"sort":     {"popular"},
		"page":     {"3"},
	}
	state := ParseViewState(query)
	if state.Collection != domain.CollectionGame {
		t.Fatalf("collection = %q", state.Collection)
	}
	if state.Category != "Shooter" {
		t.Fatalf("category = %q", state.Category)
	}
	if state.Search != "valorant" {
		t.Fatalf("search should trim, got %q", state.Search)
	}
	if state.Sort != domain.SortPopular {
		t.Fatalf("sort = %q", state.Sort)
	}
	if state.Page != 3 {
		t.Fatalf("page = %d", state.Page)
	}
}

func TestParseViewStateInvalidValuesFallBack(t *testing.T) {
	cases := []struct {
		name  string
		query url.Values
		check func(ViewState) bool
	}{
		{"bad tab", url.Values{"tab": {"movies"}}, func(s ViewState) bool { return s.Collection == domain.CollectionSoftware }},
		{"bad sort", url.Values{"sort": {"alphabetical"}}, func(s ViewState) bool { return s.Sort == domain.SortNewest }},
		{"zero page", url.Values{"page": {"0"}}, func(s ViewState) bool { return s.Page == 1 }},
		{"negative page", url.Values{"page": {"-2"}}, func(s ViewState) bool { return s.Page == 1 }},
		{"non-numeric page", url.Values{"page": {"abc"}}, func(s ViewState) bool { return s.Page == 1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if state := ParseViewState(tc.query); !tc.check(state) {
				t.Fatalf("got %+v", state)
			}
		})
	}
}

func TestEncodeOmitsDefaults(t *testing.T) {
	if encoded := DefaultViewState().Encode(); len(encoded) != 0 {
		t.Fatalf("default state should encode empty, got %q", encoded.Encode())
	}

	state := DefaultViewState().
		WithCollection(domain.CollectionGame).
		WithCategory("Shooter").
		WithSearch("valorant").
		WithSort(domain.SortOldest).
		WithPage(2)
	encoded := state.Encode()

	for param, want := range map[string]string{
		"tab":      "game",
		"category": "Shooter",
		"search":   "valorant",
		"sort":     "oldest",
		"page":     "2",
	} {
		if got := encoded.Get(param); got != want {
			t.Fatalf("%s = %q, want %q", param, got, want)
		}
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	state := ViewState{
		Collection: domain.CollectionGame,
		Category:   "RPG",
		Search:     "quest",
		Sort:       domain.SortPopular,
		Page:       4,
	}
	again := ParseViewState(state.Encode())
	if again != state {
		t.Fatalf("round trip changed state: %+v vs %+v", again, state)
	}
	if again.Encode().Encode() != state.Encode().Encode() {
		t.Fatalf("encode not idempotent")
	}
}

func TestMutatorsResetPage(t *testing.T) {
	base := DefaultViewState().WithPage(5)

	if got := base.WithCategory("Action").Page; got != 1 {
		t.Fatalf("category change should reset page, got %d", got)
	}
	if got := base.WithSort(domain.SortOldest).Page; got != 1 {
		t.Fatalf("sort change should reset page, got %d", got)
	}
	if got := base.WithCollection(domain.CollectionGame).Page; got != 1 {
		t.Fatalf("collection change should reset page, got %d", got)
	}
	if got := base.WithSearch("zoom").Page; got != 5 {
		t.Fatalf("search change should keep page, got %d", got)
	}
}

func TestWithCategoryBlankBecomesAll(t *testing.T) {
	if got := DefaultViewState().WithCategory("  ").Category; got != CategoryAll {
		t.Fatalf("blank category should become %q, got %q", CategoryAll, got)
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		page, totalPages, want int
	}{
		{5, 3, 3},
		{2, 3, 2},
		{1, 0, 1},
		{9, 0, 1},
		{0, 4, 1},
	}
	for _, tc := range cases {
		state := ViewState{Page: tc.page}.ClampPage(tc.totalPages)
		if state.Page != tc.want {
			t.Fatalf("clamp(page=%d, total=%d) = %d, want %d", tc.page, tc.totalPages, state.Page, tc.want)
		}
	}
}
