package database

import (
	"marketplace-portal/internal/models"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListingFilters holds the optional constraints of a listing query.
// Nil pointer fields mean "no constraint"; empty strings likewise.
// Handlers are responsible for dropping unparseable request values
// before they reach this struct.
type ListingFilters struct {
	Query          string
	Category       string
	SearchLocation string
	MaxDistance    *int
	MinPrice       *float64
	MaxPrice       *float64
	WatchlistOnly  bool
	Page           int
	Limit          int
}

// ListingPage is one page of filtered results, newest first.
type ListingPage struct {
	Count   int64            `json:"count"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	Results []models.Listing `json:"results"`
}

// FilterOptions holds the distinct non-empty values present across all
// listings, for client filter dropdowns.
type FilterOptions struct {
	Queries         []string `json:"queries"`
	Categories      []string `json:"categories"`
	SearchLocations []string `json:"search_locations"`
}

// buildListingQuery applies all requested filters to a listings query.
func buildListingQuery(db *gorm.DB, f ListingFilters) *gorm.DB {
	q := db.Model(&models.Listing{})

	if f.Query != "" {
		q = q.Where("query = ?", f.Query)
	}
	if f.Category != "" {
		q = q.Where("search_title = ?", f.Category)
	}
	if f.SearchLocation != "" {
		q = q.Where("search_location = ?", f.SearchLocation)
	}
	if f.MaxDistance != nil {
		q = q.Where("distance <= ?", *f.MaxDistance)
	}

	// Any price bound excludes rows whose price text never parsed.
	if f.MinPrice != nil || f.MaxPrice != nil {
		q = q.Where("price_amount IS NOT NULL")
	}
	if f.MinPrice != nil {
		q = q.Where("price_amount >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_amount <= ?", *f.MaxPrice)
	}

	if f.WatchlistOnly {
		q = q.Where("watchlist = ?", true)
	}

	return q
}

// ListListings returns the filtered, reverse-chronological listing page.
func (gdb *GormDB) ListListings(f ListingFilters) (*ListingPage, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Page < 1 {
		f.Page = 1
	}

	var count int64
	if err := buildListingQuery(gdb.db, f).Count(&count).Error; err != nil {
		return nil, err
	}

	results := make([]models.Listing, 0, f.Limit)
	err := buildListingQuery(gdb.db, f).
		Order("created_at DESC, listing_idx DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}

	return &ListingPage{
		Count:   count,
		Page:    f.Page,
		Limit:   f.Limit,
		Results: results,
	}, nil
}

// GetListing retrieves a listing by its index.
func (gdb *GormDB) GetListing(idx int64) (*models.Listing, error) {
	var listing models.Listing
	err := gdb.db.Where("listing_idx = ?", idx).First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// SaveListing inserts a new listing, parsing the price magnitude once.
func (gdb *GormDB) SaveListing(l *models.Listing) error {
	l.NormalizePrice()
	return gdb.db.Create(l).Error
}

// UpdateListing saves changes to an existing listing, re-parsing the
// price magnitude in case the price text changed.
func (gdb *GormDB) UpdateListing(l *models.Listing) error {
	l.NormalizePrice()
	return gdb.db.Save(l).Error
}

// SetWatchlist flips the watchlist flag on a listing.
func (gdb *GormDB) SetWatchlist(idx int64, watchlist bool) error {
	var listing models.Listing
	if err := gdb.db.Where("listing_idx = ?", idx).First(&listing).Error; err != nil {
		return err
	}
	return gdb.db.Model(&listing).Update("watchlist", watchlist).Error
}

// DeleteListing removes a listing by its index.
func (gdb *GormDB) DeleteListing(idx int64) error {
	result := gdb.db.Where("listing_idx = ?", idx).Delete(&models.Listing{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetFilterOptions recomputes the distinct, sorted, non-empty filter
// values on every call; the underlying data changes continuously.
func (gdb *GormDB) GetFilterOptions() (*FilterOptions, error) {
	opts := &FilterOptions{
		Queries:         []string{},
		Categories:      []string{},
		SearchLocations: []string{},
	}

	if err := gdb.distinctListingValues("query", &opts.Queries); err != nil {
		return nil, err
	}
	if err := gdb.distinctListingValues("search_title", &opts.Categories); err != nil {
		return nil, err
	}
	if err := gdb.distinctListingValues("search_location", &opts.SearchLocations); err != nil {
		return nil, err
	}

	return opts, nil
}

func (gdb *GormDB) distinctListingValues(column string, dest *[]string) error {
	return gdb.db.Model(&models.Listing{}).
		Where(column+" IS NOT NULL AND "+column+" != ''").
		Distinct().
		Order(column + " ASC").
		Pluck(column, dest).Error
}
