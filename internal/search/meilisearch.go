package search

import (
	"marketplace-portal/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "listing_idx",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"query",
		"search_title",
		"search_location",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"listing_idx",
		"query",
		"search_title",
		"search_location",
		"price_amount",
		"distance",
		"watchlist",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price_amount",
		"distance",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexListing indexes a single listing
func (s *SearchClient) IndexListing(listing *models.Listing) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Listing{*listing})
	return err
}

// IndexListings indexes multiple listings
func (s *SearchClient) IndexListings(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(listings)
	return err
}

// DeleteListing removes a listing from the index
func (s *SearchClient) DeleteListing(idx string) error {
	_, err := s.client.Index(s.index).DeleteDocument(idx)
	return err
}

// Search performs a full-text search over the listing index.
func (s *SearchClient) Search(query string, limit int64) ([]models.Listing, error) {
	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		listings = append(listings, parseListingFromHit(hit))
	}

	return listings, nil
}

// parseListingFromHit converts a search hit to a Listing
func parseListingFromHit(hit interface{}) models.Listing {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Listing{}
	}

	listing := models.Listing{
		Price:          getString(hitMap, "price"),
		Title:          getString(hitMap, "title"),
		Description:    getString(hitMap, "description"),
		URL:            getString(hitMap, "url"),
		Img:            getString(hitMap, "img"),
		Query:          getString(hitMap, "query"),
		SearchTitle:    getString(hitMap, "search_title"),
		SearchLocation: getString(hitMap, "search_location"),
	}

	// Parse numeric fields
	if idx, ok := hitMap["listing_idx"].(float64); ok {
		listing.ListingIdx = int64(idx)
	}
	if amount, ok := hitMap["price_amount"].(float64); ok {
		listing.PriceAmount = &amount
	}
	if distance, ok := hitMap["distance"].(float64); ok {
		distanceInt := int(distance)
		listing.Distance = &distanceInt
	}
	if scannerID, ok := hitMap["scanner_id"].(float64); ok {
		scannerIDInt := int(scannerID)
		listing.ScannerID = &scannerIDInt
	}
	if watchlist, ok := hitMap["watchlist"].(bool); ok {
		listing.Watchlist = watchlist
	}

	return listing
}

// getString safely extracts a string from map
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}
