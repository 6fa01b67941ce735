package models

import "time"

// ActiveScanner is a saved (category, query) search configuration executed
// by the external scanning process. That process owns Status and writes it
// directly; this API only reads it.
type ActiveScanner struct {
	ID       int           `gorm:"primaryKey;autoIncrement" json:"id"`
	Category string        `gorm:"type:varchar(100);not null" json:"category"`
	Query    string        `gorm:"type:varchar(255);not null;index" json:"query"`
	Status   ScannerStatus `gorm:"type:varchar(20);not null;default:'stopped'" json:"status"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`

	Mappings []ScannerLocationMapping `gorm:"foreignKey:ScannerID;constraint:OnDelete:CASCADE" json:"-"`
}

// ScannerStatus is the scanner lifecycle state reported by the scanning
// process.
type ScannerStatus string

const (
	ScannerStatusStopped ScannerStatus = "stopped"
	ScannerStatusRunning ScannerStatus = "running"
	ScannerStatusError   ScannerStatus = "error"
)

// TableName specifies the table name
func (ActiveScanner) TableName() string {
	return "active_scanners"
}

// IsRunning reports whether the scanning process last marked this scanner
// as running.
func (s *ActiveScanner) IsRunning() bool {
	return s.Status == ScannerStatusRunning
}
