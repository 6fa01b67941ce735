package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// priceRegexp captures the numeric magnitude inside a free-text price
// such as "$1,250" or "USD 99.50".
var priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// Listing is one scraped marketplace result row. Rows are written by the
// external scraper through the ingest endpoint and read back through the
// filter API.
type Listing struct {
	ListingIdx int64  `gorm:"column:listing_idx;primaryKey;autoIncrement" json:"listing_idx"`
	Price      string `gorm:"type:varchar(50)" json:"price,omitempty"`

	// PriceAmount is the numeric magnitude parsed out of Price once at
	// write time. NULL when Price never parsed; such rows are excluded
	// from any price-bounded query.
	PriceAmount *float64 `gorm:"type:decimal(12,2);index" json:"price_amount,omitempty"`

	Title       string `gorm:"type:text" json:"title,omitempty"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Distance    *int   `gorm:"type:int;index" json:"distance,omitempty"`
	URL         string `gorm:"type:text" json:"url,omitempty"`
	Img         string `gorm:"type:text" json:"img,omitempty"`

	// Provenance: which scanner/search produced the row.
	Query          string `gorm:"type:varchar(50);index" json:"query,omitempty"`
	SearchTitle    string `gorm:"type:varchar(255);index" json:"search_title,omitempty"`
	SearchLocation string `gorm:"type:varchar(100);index" json:"search_location,omitempty"`

	// ScannerID is a soft reference to the producing scanner. The scraper
	// may keep writing rows for scanners that were deleted here, so no FK.
	ScannerID *int `gorm:"type:int;index" json:"scanner_id,omitempty"`

	Watchlist bool      `gorm:"not null;default:false;index" json:"watchlist"`
	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_listings_created_at,sort:desc" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`
}

// TableName はテーブル名を明示的に指定
func (Listing) TableName() string {
	return "listings"
}

// NormalizePrice parses the stored Price text into PriceAmount.
// Call before saving; repositories do this for every write path.
func (l *Listing) NormalizePrice() {
	if amount, ok := ParsePriceAmount(l.Price); ok {
		l.PriceAmount = &amount
	} else {
		l.PriceAmount = nil
	}
}

// ParsePriceAmount extracts the numeric magnitude from free-text price
// values like "$123", "$1,250.50" or "USD 99". Returns false when the
// text holds no number.
func ParsePriceAmount(raw string) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
