package models

import "time"

// ScannerLocationMapping is the activatable association between a scanner
// and a location. Rows are never hard-deleted by scanner updates, only
// deactivated; hard deletion happens via cascade from either parent.
type ScannerLocationMapping struct {
	ID         int  `gorm:"primaryKey;autoIncrement" json:"id"`
	ScannerID  int  `gorm:"not null;uniqueIndex:idx_scanner_location" json:"scanner_id"`
	LocationID int  `gorm:"not null;uniqueIndex:idx_scanner_location" json:"location_id"`
	IsActive   bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`

	Scanner  ActiveScanner `gorm:"foreignKey:ScannerID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Location Location      `gorm:"foreignKey:LocationID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (ScannerLocationMapping) TableName() string {
	return "scanner_location_mappings"
}
