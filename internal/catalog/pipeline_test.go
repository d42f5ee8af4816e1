package catalog

import (
	"testing"

	"github.com/aa-remote/site/internal/domain"
)

func game(title, genre, date string, source domain.SourceTag) domain.CatalogItem {
	return domain.CatalogItem{
		Title:       title,
		Genre:       genre,
		ReleaseDate: date,
		Source:      source,
	}
}

func TestMergeDedupeFirstWins(t *testing.T) {
	p := NewPipeline()

	remote := []domain.CatalogItem{
		game("Valorant", "Shooter", "2023-01-01", domain.SourceRemote),
	}
	local := []domain.CatalogItem{
		game("valorant ", "Shooter", "2024-01-01", domain.SourceLocal),
		game("Chess Arena", "Strategy", "2022-05-10", domain.SourceLocal),
	}

	merged := p.MergeDedupe(remote, local)
	if len(merged) != 2 {
		t.Fatalf("expected 2 merged items, got %d", len(merged))
	}
	if merged[0].ReleaseDate != "2023-01-01" || merged[0].Source != domain.SourceRemote {
		t.Fatalf("expected remote Valorant to win dedupe, got %+v", merged[0])
	}
	if merged[1].Title != "Chess Arena" {
		t.Fatalf("expected Chess Arena second, got %q", merged[1].Title)
	}
}

func TestMergeDedupeIdempotent(t *testing.T) {
	p := NewPipeline()
	items := []domain.CatalogItem{
		game("Alpha Strike", "Action", "2023-06-01", domain.SourceRemote),
		game("Alpha Strike", "Action", "2023-06-01", domain.SourceRemote),
	}
	once := p.MergeDedupe(items, nil)
	twice := p.MergeDedupe(once, nil)
	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("dedupe not idempotent: once=%d twice=%d", len(once), len(twice))
	}
}

func TestMergeDedupeSkipsEmptyTitles(t *testing.T) {
	p := NewPipeline()
	merged := p.MergeDedupe([]domain.CatalogItem{
		game("  ", "Action", "2023-01-01", domain.SourceRemote),
		game("Real Game", "Action", "2023-01-01", domain.SourceRemote),
	}, nil)
	if len(merged) != 1 || merged[0].Title != "Real Game" {
		t.Fatalf("expected only Real Game, got %+v", merged)
	}
}

func TestKeywordExclusion(t *testing.T) {
	policy := KeywordExclusion(DefaultExcludedKeywords)

	cases := []struct {
		title    string
		excluded bool
	}{
		{"Forza Horizon Demo", true},
		{"Beta Blockers", true},
		{"Grand Quest Deluxe", true},
		{"Trackside Special Edition", true},
		{"Forza Horizon", false},
		{"Rocket League", false},
	}
	for _, tc := range cases {
		got := policy(domain.CatalogItem{Title: tc.title})
		if got != tc.excluded {
			t.Fatalf("exclusion for %q = %v, want %v", tc.title, got, tc.excluded)
		}
	}
}

func TestCustomExclusionPolicy(t *testing.T) {
	p := NewPipeline(WithExclusionPolicy(func(item domain.CatalogItem) bool {
		return item.Genre == "Shooter"
	}))
	page, _ := p.View([]domain.CatalogItem{
		game("Valorant", "Shooter", "2023-01-01", domain.SourceRemote),
		game("City Builder Deluxe", "Simulation", "2022-01-01", domain.SourceRemote),
	}, nil, DefaultViewState().WithCollection(domain.CollectionGame))

	if page.TotalCount != 1 {
		t.Fatalf("expected 1 item under custom policy, got %d", page.TotalCount)
	}
	if page.Items[0].Title != "City Builder Deluxe" {
		t.Fatalf("custom policy should not exclude by keyword, got %q", page.Items[0].Title)
	}
}

func TestSearchFilterMatchesTitleDescriptionGenre(t *testing.T) {
	items := []domain.CatalogItem{
		{Title: "Star Raiders", Genre: "Shooter", Description: "space combat", ReleaseDate: "2023-01-01"},
		{Title: "Farm Life", Genre: "Simulation", Description: "tend your crops", ReleaseDate: "2022-01-01"},
		{Title: "Night Drive", Genre: "Racing", Description: "neon space city", ReleaseDate: "2021-01-01"},
	}

	cases := []struct {
		query string
		want  int
	}{
		{"space", 2},
		{"SIMULATION", 1},
		{"farm", 1},
		{"  ", 3},
		{"zzz", 0},
	}
	p := NewPipeline()
	for _, tc := range cases {
		state := DefaultViewState().WithSearch(tc.query)
		page, _ := p.View(items, nil, state)
		if page.TotalCount != tc.want {
			t.Fatalf("search %q matched %d, want %d", tc.query, page.TotalCount, tc.want)
		}
	}
}

func TestCategoryFilterIsExact(t *testing.T) {
	items := []domain.CatalogItem{
		game("A", "Action", "2023-01-01", domain.SourceRemote),
		game("B", "Action RPG", "2023-01-01", domain.SourceRemote),
		game("C", "action", "2023-01-01", domain.SourceRemote),
	}
	p := NewPipeline()
	page, _ := p.View(items, nil, DefaultViewState().WithCategory("Action"))
	if page.TotalCount != 2 {
		t.Fatalf("exact category match should hit 2 items, got %d", page.TotalCount)
	}
	for _, item := range page.Items {
		if item.Title == "B" {
			t.Fatalf("substring genre %q must not match exact category", item.Genre)
		}
	}

	all, _ := p.View(items, nil, DefaultViewState().WithCategory("All"))
	if all.TotalCount != 3 {
		t.Fatalf("category All should keep everything, got %d", all.TotalCount)
	}
}

func TestSortOrders(t *testing.T) {
	items := []domain.CatalogItem{
		game("Mid", "Action", "2023-03-01", domain.SourceRemote),
		game("Old", "Action", "2022-03-01", domain.SourceRemote),
		game("New", "Action", "2024-03-01", domain.SourceRemote),
	}
	p := NewPipeline()

	newest, _ := p.View(items, nil, DefaultViewState().WithSort(domain.SortNewest))
	if newest.Items[0].Title != "New" || newest.Items[2].Title != "Old" {
		t.Fatalf("newest order wrong: %q..%q", newest.Items[0].Title, newest.Items[2].Title)
	}

	oldest, _ := p.View(items, nil, DefaultViewState().WithSort(domain.SortOldest))
	if oldest.Items[0].Title != "Old" || oldest.Items[2].Title != "New" {
		t.Fatalf("oldest order wrong: %q..%q", oldest.Items[0].Title, oldest.Items[2].Title)
	}
}

func TestSortPopularRanksLocalFirst(t *testing.T) {
	remote := []domain.CatalogItem{
		game("Remote Fresh", "Action", "2024-01-01", domain.SourceRemote),
	}
	local := []domain.CatalogItem{
		game("Local Old", "Action", "2020-01-01", domain.SourceLocal),
		game("Local New", "Action", "2023-01-01", domain.SourceLocal),
	}
	p := NewPipeline()
	page, _ := p.View(remote, local, DefaultViewState().WithSort(domain.SortPopular))

	want := []string{"Local New", "Local Old", "Remote Fresh"}
	for i, title := range want {
		if page.Items[i].Title != title {
			t.Fatalf("popular order[%d] = %q, want %q", i, page.Items[i].Title, title)
		}
	}
}

func TestUnparseableDateSortsOldest(t *testing.T) {
	items := []domain.CatalogItem{
		game("Undated", "Action", "coming soon", domain.SourceRemote),
		game("Dated", "Action", "2022-01-01", domain.SourceRemote),
	}
	p := NewPipeline()
	page, _ := p.View(items, nil, DefaultViewState().WithSort(domain.SortNewest))
	if page.Items[1].Title != "Undated" {
		t.Fatalf("unparseable date should sink to the bottom under newest, got %q last", page.Items[1].Title)
	}
}

func TestSortDeterminism(t *testing.T) {
	items := []domain.CatalogItem{
		game("Twin A", "Action", "2023-01-01", domain.SourceRemote),
		game("Twin B", "Action", "2023-01-01", domain.SourceRemote),
		game("Twin C", "Action", "2023-01-01", domain.SourceRemote),
	}
	p := NewPipeline()
	first, _ := p.View(items, nil, DefaultViewState().WithSort(domain.SortNewest))
	second, _ := p.View(items, nil, DefaultViewState().WithSort(domain.SortNewest))
	for i := range first.Items {
		if first.Items[i].Title != second.Items[i].Title {
			t.Fatalf("sort not deterministic at index %d: %q vs %q", i, first.Items[i].Title, second.Items[i].Title)
		}
	}
}

func TestPaginationCoversEveryItemOnce(t *testing.T) {
	items := make([]domain.CatalogItem, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, game(string(rune('A'+i)), "Action", "2023-01-01", domain.SourceRemote))
	}
	p := NewPipeline()

	seen := map[string]int{}
	state := DefaultViewState()
	first, clamped := p.View(items, nil, state)
	if first.TotalPages != 3 || first.TotalCount != 30 {
		t.Fatalf("expected 3 pages over 30 items, got pages=%d count=%d", first.TotalPages, first.TotalCount)
	}
	for pageNum := 1; pageNum <= first.TotalPages; pageNum++ {
		page, _ := p.View(items, nil, clamped.WithPage(pageNum))
		for _, item := range page.Items {
			seen[item.Title]++
		}
	}
	if len(seen) != 30 {
		t.Fatalf("pages cover %d distinct items, want 30", len(seen))
	}
	for title, n := range seen {
		if n != 1 {
			t.Fatalf("item %q appeared %d times across pages", title, n)
		}
	}
}

func TestPageClampedToResult(t *testing.T) {
	items := []domain.CatalogItem{
		game("Only A", "Action", "2023-01-01", domain.SourceRemote),
		game("Only B", "Action", "2023-01-01", domain.SourceRemote),
		game("Only C", "Action", "2023-01-01", domain.SourceRemote),
		game("Only D", "Action", "2023-01-01", domain.SourceRemote),
		game("Only E", "Action", "2023-01-01", domain.SourceRemote),
	}
	p := NewPipeline()
	page, state := p.View(items, nil, DefaultViewState().WithPage(3))

	if page.TotalPages != 1 {
		t.Fatalf("expected 1 total page, got %d", page.TotalPages)
	}
	if state.Page != 1 {
		t.Fatalf("page should clamp to 1, got %d", state.Page)
	}
	if len(page.Items) != 5 {
		t.Fatalf("clamped page should hold all 5 items, got %d", len(page.Items))
	}
}

func TestEmptyResultYieldsEmptyPage(t *testing.T) {
	p := NewPipeline()
	page, state := p.View(nil, nil, DefaultViewState().WithPage(7))
	if page.TotalCount != 0 || page.TotalPages != 0 || len(page.Items) != 0 {
		t.Fatalf("empty input should give empty page, got %+v", page)
	}
	if state.Page != 1 {
		t.Fatalf("page should clamp to 1 on empty result, got %d", state.Page)
	}
}

func TestViewSoftwareSortAndSearch(t *testing.T) {
	products := []domain.SoftwareProduct{
		{Name: "Zoom", Description: "video calls", Category: "Communication", ReleaseYear: 2013, Popularity: 93},
		{Name: "Blender", Description: "3D creation", Category: "Creative", ReleaseYear: 1998, Popularity: 88},
		{Name: "Figma Desktop", Description: "design tool", Category: "Design", ReleaseYear: 2016, Popularity: 93},
	}
	p := NewPipeline()

	search, _ := p.ViewSoftware(products, DefaultViewState().WithSearch("zoom"))
	if search.TotalCount != 1 || search.Items[0].Name != "Zoom" {
		t.Fatalf("search zoom got %+v", search.Items)
	}

	oldest, _ := p.ViewSoftware(products, DefaultViewState().WithSort(domain.SortOldest))
	if oldest.Items[0].Name != "Blender" {
		t.Fatalf("oldest software should be Blender, got %q", oldest.Items[0].Name)
	}

	popular, _ := p.ViewSoftware(products, DefaultViewState().WithSort(domain.SortPopular))
	if popular.Items[2].Name != "Blender" {
		t.Fatalf("least popular should be last, got %q", popular.Items[2].Name)
	}

	category, _ := p.ViewSoftware(products, DefaultViewState().WithCategory("Design"))
	if category.TotalCount != 1 || category.Items[0].Name != "Figma Desktop" {
		t.Fatalf("Design category got %+v", category.Items)
	}
}
