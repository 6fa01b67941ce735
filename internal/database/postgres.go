package database

import (
	"database/sql"
	"fmt"

	"marketplace-portal/internal/models"

	_ "github.com/lib/pq"
)

// DB is the legacy PostgreSQL listing store. It covers the listing table
// only; scanner, keyword and mapping endpoints require the GORM path.
type DB struct {
	conn *sql.DB
}

func NewDB(host, port, user, password, dbname string) (*DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the listings table if it doesn't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		listing_idx BIGSERIAL PRIMARY KEY,
		price VARCHAR(50),
		price_amount DECIMAL(12, 2),
		title TEXT,
		description TEXT,
		distance INTEGER,
		url TEXT,
		img TEXT,
		query VARCHAR(50),
		search_title VARCHAR(255),
		search_location VARCHAR(100),
		scanner_id INTEGER,
		watchlist BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Create indexes for filtering
	CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_listings_query ON listings(query);
	CREATE INDEX IF NOT EXISTS idx_listings_price_amount ON listings(price_amount);
	CREATE INDEX IF NOT EXISTS idx_listings_distance ON listings(distance);
	`
	_, err := db.conn.Exec(query)
	return err
}

// SaveListing inserts a listing, parsing the price magnitude once.
func (db *DB) SaveListing(l *models.Listing) error {
	l.NormalizePrice()
	query := `
	INSERT INTO listings (
		price, price_amount, title, description, distance, url, img,
		query, search_title, search_location, scanner_id, watchlist
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING listing_idx, created_at
	`
	return db.conn.QueryRow(query,
		l.Price, l.PriceAmount, l.Title, l.Description, l.Distance, l.URL, l.Img,
		l.Query, l.SearchTitle, l.SearchLocation, l.ScannerID, l.Watchlist,
	).Scan(&l.ListingIdx, &l.CreatedAt)
}

// GetAllListings retrieves all listings newest first. Legacy path: no
// request-parameter filtering, matching the pre-GORM behavior.
func (db *DB) GetAllListings() ([]models.Listing, error) {
	query := `
		SELECT listing_idx, price, price_amount, title, description, distance,
			   url, img, query, search_title, search_location, scanner_id,
			   watchlist, created_at
		FROM listings
		ORDER BY created_at DESC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		var l models.Listing
		err := rows.Scan(
			&l.ListingIdx, &l.Price, &l.PriceAmount, &l.Title, &l.Description, &l.Distance,
			&l.URL, &l.Img, &l.Query, &l.SearchTitle, &l.SearchLocation, &l.ScannerID,
			&l.Watchlist, &l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// GetListingByIdx retrieves a listing by its index
func (db *DB) GetListingByIdx(idx int64) (*models.Listing, error) {
	query := `
		SELECT listing_idx, price, price_amount, title, description, distance,
			   url, img, query, search_title, search_location, scanner_id,
			   watchlist, created_at
		FROM listings
		WHERE listing_idx = $1
	`

	var l models.Listing
	err := db.conn.QueryRow(query, idx).Scan(
		&l.ListingIdx, &l.Price, &l.PriceAmount, &l.Title, &l.Description, &l.Distance,
		&l.URL, &l.Img, &l.Query, &l.SearchTitle, &l.SearchLocation, &l.ScannerID,
		&l.Watchlist, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &l, nil
}
