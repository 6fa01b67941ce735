package models

import "time"

// Location is a named marketplace region used to parameterize scans.
type Location struct {
	ID   int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);not null" json:"name"`
	Slug string `gorm:"type:varchar(100);not null;index" json:"slug"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"updated_at"`

	Mappings []ScannerLocationMapping `gorm:"foreignKey:LocationID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (Location) TableName() string {
	return "locations"
}
