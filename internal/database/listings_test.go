package database

import (
	"testing"

	"marketplace-portal/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *GormDB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	gdb := NewGormDBFromDB(db)
	if err := gdb.InitSchema(); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return gdb
}

func mustSaveListing(t *testing.T, gdb *GormDB, l models.Listing) models.Listing {
	t.Helper()
	if err := gdb.SaveListing(&l); err != nil {
		t.Fatalf("failed to save listing: %v", err)
	}
	return l
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestListListingsDistanceFilter(t *testing.T) {
	gdb := newTestDB(t)

	mustSaveListing(t, gdb, models.Listing{Title: "near", Distance: intPtr(5)})
	mustSaveListing(t, gdb, models.Listing{Title: "mid", Distance: intPtr(20)})
	mustSaveListing(t, gdb, models.Listing{Title: "far", Distance: intPtr(50)})

	page, err := gdb.ListListings(ListingFilters{MaxDistance: intPtr(20)})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}

	if page.Count != 2 {
		t.Fatalf("expected 2 listings within distance 20, got %d", page.Count)
	}
	for _, l := range page.Results {
		if *l.Distance > 20 {
			t.Errorf("listing %q has distance %d beyond the bound", l.Title, *l.Distance)
		}
	}
}

func TestListListingsPriceBounds(t *testing.T) {
	gdb := newTestDB(t)

	mustSaveListing(t, gdb, models.Listing{Title: "cheap", Price: "$50"})
	mustSaveListing(t, gdb, models.Listing{Title: "mid", Price: "$150"})
	mustSaveListing(t, gdb, models.Listing{Title: "expensive", Price: "$500"})
	mustSaveListing(t, gdb, models.Listing{Title: "no-price", Price: "abc"})
	mustSaveListing(t, gdb, models.Listing{Title: "empty-price", Price: ""})

	page, err := gdb.ListListings(ListingFilters{
		MinPrice: floatPtr(100),
		MaxPrice: floatPtr(300),
	})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}

	if page.Count != 1 {
		t.Fatalf("expected 1 listing in [100, 300], got %d", page.Count)
	}
	if page.Results[0].Title != "mid" {
		t.Errorf("expected listing %q, got %q", "mid", page.Results[0].Title)
	}
}

func TestListListingsPriceBoundExcludesUnparseable(t *testing.T) {
	gdb := newTestDB(t)

	mustSaveListing(t, gdb, models.Listing{Title: "priced", Price: "$10"})
	mustSaveListing(t, gdb, models.Listing{Title: "unpriced", Price: "call me"})

	// Any single bound excludes rows whose price never parsed.
	page, err := gdb.ListListings(ListingFilters{MinPrice: floatPtr(0)})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}

	if page.Count != 1 || page.Results[0].Title != "priced" {
		t.Fatalf("expected only the priced listing, got %d results", page.Count)
	}
}

// The scenario from the client team's bug report: min_price=100 and
// max_distance=20 over a mixed set must return only the $500 listing.
func TestListListingsCombinedPriceAndDistance(t *testing.T) {
	gdb := newTestDB(t)

	mustSaveListing(t, gdb, models.Listing{Title: "a", Price: "$50", Distance: intPtr(10)})
	mustSaveListing(t, gdb, models.Listing{Title: "b", Price: "$500", Distance: intPtr(5)})
	mustSaveListing(t, gdb, models.Listing{Title: "c", Price: "abc", Distance: intPtr(1)})

	page, err := gdb.ListListings(ListingFilters{
		MinPrice:    floatPtr(100),
		MaxDistance: intPtr(20),
	})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}

	if page.Count != 1 {
		t.Fatalf("expected exactly 1 listing, got %d", page.Count)
	}
	if page.Results[0].Price != "$500" {
		t.Errorf("expected the $500 listing, got %q", page.Results[0].Price)
	}
}

func TestListListingsEqualityFilters(t *testing.T) {
	gdb := newTestDB(t)

	mustSaveListing(t, gdb, models.Listing{Title: "a", Query: "bike", SearchTitle: "sports", SearchLocation: "berlin"})
	mustSaveListing(t, gdb, models.Listing{Title: "b", Query: "bike", SearchTitle: "vehicles", SearchLocation: "hamburg"})
	mustSaveListing(t, gdb, models.Listing{Title: "c", Query: "sofa", SearchTitle: "furniture", SearchLocation: "berlin"})

	page, err := gdb.ListListings(ListingFilters{Query: "bike", SearchLocation: "berlin"})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}

	if page.Count != 1 || page.Results[0].Title != "a" {
		t.Fatalf("expected only listing %q, got %d results", "a", page.Count)
	}
}

func TestListListingsWatchlistFilter(t *testing.T) {
	gdb := newTestDB(t)

	mustSaveListing(t, gdb, models.Listing{Title: "watched", Watchlist: true})
	mustSaveListing(t, gdb, models.Listing{Title: "unwatched"})

	page, err := gdb.ListListings(ListingFilters{WatchlistOnly: true})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}
	if page.Count != 1 || page.Results[0].Title != "watched" {
		t.Fatalf("expected only the watched listing, got %d results", page.Count)
	}

	// WatchlistOnly=false means no filter, not "non-watchlist only".
	page, err = gdb.ListListings(ListingFilters{})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}
	if page.Count != 2 {
		t.Fatalf("expected both listings without the filter, got %d", page.Count)
	}
}

func TestListListingsOrderingAndPagination(t *testing.T) {
	gdb := newTestDB(t)

	for i := 0; i < 25; i++ {
		mustSaveListing(t, gdb, models.Listing{Title: "item"})
	}

	page, err := gdb.ListListings(ListingFilters{})
	if err != nil {
		t.Fatalf("ListListings failed: %v", err)
	}

	if page.Count != 25 {
		t.Fatalf("expected count 25, got %d", page.Count)
	}
	if page.Limit != DefaultPageSize || len(page.Results) != DefaultPageSize {
		t.Fatalf("expected default page of %d, got %d", DefaultPageSize, len(page.Results))
	}

	// Newest first
	for i := 1; i < len(page.Results); i++ {
		if page.Results[i-1].ListingIdx < page.Results[i].ListingIdx {
			t.Fatalf("results not in reverse-chronological order at position %d", i)
		}
	}

	second, err := gdb.ListListings(ListingFilters{Page: 2})
	if err != nil {
		t.Fatalf("ListListings page 2 failed: %v", err)
	}
	if len(second.Results) != 5 {
		t.Fatalf("expected 5 results on page 2, got %d", len(second.Results))
	}

	// Limit is capped
	capped, err := gdb.ListListings(ListingFilters{Limit: 500})
	if err != nil {
		t.Fatalf("ListListings with oversized limit failed: %v", err)
	}
	if capped.Limit != MaxPageSize {
		t.Fatalf("expected limit capped at %d, got %d", MaxPageSize, capped.Limit)
	}
}

func TestSetWatchlist(t *testing.T) {
	gdb := newTestDB(t)

	l := mustSaveListing(t, gdb, models.Listing{Title: "item"})

	if err := gdb.SetWatchlist(l.ListingIdx, true); err != nil {
		t.Fatalf("SetWatchlist failed: %v", err)
	}

	got, err := gdb.GetListing(l.ListingIdx)
	if err != nil {
		t.Fatalf("GetListing failed: %v", err)
	}
	if !got.Watchlist {
		t.Error("expected watchlist flag to be set")
	}

	if err := gdb.SetWatchlist(99999, true); err != gorm.ErrRecordNotFound {
		t.Errorf("expected ErrRecordNotFound for unknown listing, got %v", err)
	}
}

func TestGetFilterOptions(t *testing.T) {
	gdb := newTestDB(t)

	mustSaveListing(t, gdb, models.Listing{Query: "bike", SearchTitle: "sports", SearchLocation: "berlin"})
	mustSaveListing(t, gdb, models.Listing{Query: "bike", SearchTitle: "sports", SearchLocation: "hamburg"})
	mustSaveListing(t, gdb, models.Listing{Query: "antique", SearchTitle: "", SearchLocation: ""})

	opts, err := gdb.GetFilterOptions()
	if err != nil {
		t.Fatalf("GetFilterOptions failed: %v", err)
	}

	wantQueries := []string{"antique", "bike"}
	if len(opts.Queries) != len(wantQueries) {
		t.Fatalf("expected %d queries, got %v", len(wantQueries), opts.Queries)
	}
	for i, q := range wantQueries {
		if opts.Queries[i] != q {
			t.Errorf("queries[%d] = %q; want %q (sorted, deduplicated)", i, opts.Queries[i], q)
		}
	}

	if len(opts.Categories) != 1 || opts.Categories[0] != "sports" {
		t.Errorf("expected categories [sports], got %v", opts.Categories)
	}
	for _, loc := range opts.SearchLocations {
		if loc == "" {
			t.Error("filter options must not contain empty values")
		}
	}
	if len(opts.SearchLocations) != 2 {
		t.Errorf("expected 2 search locations, got %v", opts.SearchLocations)
	}
}

func TestUpdateListingReparsesPrice(t *testing.T) {
	gdb := newTestDB(t)

	l := mustSaveListing(t, gdb, models.Listing{Title: "item", Price: "$100"})
	if l.PriceAmount == nil || *l.PriceAmount != 100 {
		t.Fatalf("expected parsed price_amount 100, got %v", l.PriceAmount)
	}

	l.Price = "$250"
	if err := gdb.UpdateListing(&l); err != nil {
		t.Fatalf("UpdateListing failed: %v", err)
	}

	got, err := gdb.GetListing(l.ListingIdx)
	if err != nil {
		t.Fatalf("GetListing failed: %v", err)
	}
	if got.PriceAmount == nil || *got.PriceAmount != 250 {
		t.Fatalf("expected re-parsed price_amount 250, got %v", got.PriceAmount)
	}
}
