package database

import (
	"errors"

	"marketplace-portal/internal/models"

	"gorm.io/gorm"
)

// MappingReport tells the caller which requested location ids were
// materialized as mappings and which were skipped because no such
// location exists. Skips are reported, never swallowed.
type MappingReport struct {
	AppliedLocationIDs []int `json:"applied_location_ids"`
	SkippedLocationIDs []int `json:"skipped_location_ids"`
}

// ListScanners retrieves all scanners.
func (gdb *GormDB) ListScanners() ([]models.ActiveScanner, error) {
	var scanners []models.ActiveScanner
	err := gdb.db.Order("id ASC").Find(&scanners).Error
	return scanners, err
}

// GetScanner retrieves a scanner by id.
func (gdb *GormDB) GetScanner(id int) (*models.ActiveScanner, error) {
	var scanner models.ActiveScanner
	err := gdb.db.Where("id = ?", id).First(&scanner).Error
	if err != nil {
		return nil, err
	}
	return &scanner, nil
}

// CreateScannerWithLocations creates a scanner and one active mapping per
// requested location id that exists. Unknown ids are collected in the
// report rather than failing the whole request.
func (gdb *GormDB) CreateScannerWithLocations(scanner *models.ActiveScanner, locationIDs []int) (*MappingReport, error) {
	report := &MappingReport{
		AppliedLocationIDs: []int{},
		SkippedLocationIDs: []int{},
	}

	err := gdb.db.Transaction(func(tx *gorm.DB) error {
		if scanner.Status == "" {
			scanner.Status = models.ScannerStatusStopped
		}
		if err := tx.Create(scanner).Error; err != nil {
			return err
		}
		return replaceMappings(tx, scanner.ID, locationIDs, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// UpdateScannerWithLocations updates the scanner's category and query and
// replaces its active location set. Status stays untouched: the scanning
// process owns it.
func (gdb *GormDB) UpdateScannerWithLocations(scanner *models.ActiveScanner, locationIDs []int) (*MappingReport, error) {
	report := &MappingReport{
		AppliedLocationIDs: []int{},
		SkippedLocationIDs: []int{},
	}

	err := gdb.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"category": scanner.Category,
			"query":    scanner.Query,
		}
		if err := tx.Model(&models.ActiveScanner{}).Where("id = ?", scanner.ID).Updates(updates).Error; err != nil {
			return err
		}
		return replaceMappings(tx, scanner.ID, locationIDs, report)
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// replaceMappings deactivates every existing mapping for the scanner,
// then get-or-creates a mapping per requested id and flips it active.
// Idempotent, and preserves mapping row identity across updates.
func replaceMappings(tx *gorm.DB, scannerID int, locationIDs []int, report *MappingReport) error {
	err := tx.Model(&models.ScannerLocationMapping{}).
		Where("scanner_id = ?", scannerID).
		Update("is_active", false).Error
	if err != nil {
		return err
	}

	for _, locationID := range locationIDs {
		var location models.Location
		err := tx.Where("id = ?", locationID).First(&location).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			report.SkippedLocationIDs = append(report.SkippedLocationIDs, locationID)
			continue
		}
		if err != nil {
			return err
		}

		var mapping models.ScannerLocationMapping
		err = tx.Where("scanner_id = ? AND location_id = ?", scannerID, locationID).
			First(&mapping).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			mapping = models.ScannerLocationMapping{
				ScannerID:  scannerID,
				LocationID: locationID,
				IsActive:   true,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else if !mapping.IsActive {
			if err := tx.Model(&mapping).Update("is_active", true).Error; err != nil {
				return err
			}
		}

		report.AppliedLocationIDs = append(report.AppliedLocationIDs, locationID)
	}

	return nil
}

// DeleteScanner removes a scanner and its mappings in one transaction.
func (gdb *GormDB) DeleteScanner(id int) error {
	return gdb.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scanner_id = ?", id).Delete(&models.ScannerLocationMapping{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.ActiveScanner{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ListMappings retrieves mappings, optionally restricted to one scanner.
func (gdb *GormDB) ListMappings(scannerID *int) ([]models.ScannerLocationMapping, error) {
	var mappings []models.ScannerLocationMapping
	q := gdb.db.Order("id ASC")
	if scannerID != nil {
		q = q.Where("scanner_id = ?", *scannerID)
	}
	err := q.Find(&mappings).Error
	return mappings, err
}

// GetMapping retrieves a mapping by id.
func (gdb *GormDB) GetMapping(id int) (*models.ScannerLocationMapping, error) {
	var mapping models.ScannerLocationMapping
	err := gdb.db.Where("id = ?", id).First(&mapping).Error
	if err != nil {
		return nil, err
	}
	return &mapping, nil
}

// SetMappingActive flips a single mapping's is_active flag.
func (gdb *GormDB) SetMappingActive(id int, active bool) error {
	var mapping models.ScannerLocationMapping
	if err := gdb.db.Where("id = ?", id).First(&mapping).Error; err != nil {
		return err
	}
	return gdb.db.Model(&mapping).Update("is_active", active).Error
}

// ActiveLocationIDs returns the location ids currently mapped active for
// a scanner.
func (gdb *GormDB) ActiveLocationIDs(scannerID int) ([]int, error) {
	ids := []int{}
	err := gdb.db.Model(&models.ScannerLocationMapping{}).
		Where("scanner_id = ? AND is_active = ?", scannerID, true).
		Order("location_id ASC").
		Pluck("location_id", &ids).Error
	return ids, err
}
