package database

import (
	"marketplace-portal/internal/models"

	"gorm.io/gorm"
)

// ListLocations retrieves all locations.
func (gdb *GormDB) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	err := gdb.db.Order("name ASC").Find(&locations).Error
	return locations, err
}

// GetLocation retrieves a location by id.
func (gdb *GormDB) GetLocation(id int) (*models.Location, error) {
	var location models.Location
	err := gdb.db.Where("id = ?", id).First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

// CreateLocation inserts a new location.
func (gdb *GormDB) CreateLocation(l *models.Location) error {
	return gdb.db.Create(l).Error
}

// UpdateLocation saves changes to an existing location.
func (gdb *GormDB) UpdateLocation(l *models.Location) error {
	return gdb.db.Save(l).Error
}

// DeleteLocation removes a location and cascades to its mappings in one
// transaction.
func (gdb *GormDB) DeleteLocation(id int) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).Delete(&models.ScannerLocationMapping{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.Location{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
