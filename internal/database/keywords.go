package database

import (
	"strings"

	"marketplace-portal/internal/models"

	"gorm.io/gorm"
)

// KeywordReplaceResult is the outcome of a bulk keyword replacement.
// Blank entries are dropped but counted, so callers can detect partial
// application instead of assuming full success.
type KeywordReplaceResult struct {
	Keywords     []models.Keyword `json:"keywords"`
	SkippedBlank int              `json:"skipped_blank"`
}

// ListKeywords retrieves all keywords.
func (gdb *GormDB) ListKeywords() ([]models.Keyword, error) {
	var keywords []models.Keyword
	err := gdb.db.Order("id ASC").Find(&keywords).Error
	return keywords, err
}

// KeywordsByScanner retrieves the keyword set for a scanner's filter id.
// An unknown id yields an empty set: filter_id is a soft reference.
func (gdb *GormDB) KeywordsByScanner(filterID int) ([]models.Keyword, error) {
	keywords := []models.Keyword{}
	err := gdb.db.Where("filter_id = ?", filterID).Order("id ASC").Find(&keywords).Error
	return keywords, err
}

// CreateKeyword inserts a single keyword.
func (gdb *GormDB) CreateKeyword(k *models.Keyword) error {
	return gdb.db.Create(k).Error
}

// DeleteKeyword removes a keyword by id.
func (gdb *GormDB) DeleteKeyword(id int) error {
	result := gdb.db.Where("id = ?", id).Delete(&models.Keyword{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceKeywords swaps the entire keyword set for a filter id inside one
// transaction: delete everything, insert one row per trimmed non-blank
// entry. Duplicates within a single call are preserved on purpose, so
// repeated identical calls stay idempotent.
func (gdb *GormDB) ReplaceKeywords(filterID int, keywords []string) (*KeywordReplaceResult, error) {
	result := &KeywordReplaceResult{}

	err := gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("filter_id = ?", filterID).Delete(&models.Keyword{}).Error; err != nil {
			return err
		}

		for _, text := range keywords {
			trimmed := strings.TrimSpace(text)
			if trimmed == "" {
				result.SkippedBlank++
				continue
			}
			keyword := models.Keyword{
				Keyword:  trimmed,
				FilterID: filterID,
			}
			if err := tx.Create(&keyword).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	replaced, err := gdb.KeywordsByScanner(filterID)
	if err != nil {
		return nil, err
	}
	result.Keywords = replaced
	return result, nil
}
