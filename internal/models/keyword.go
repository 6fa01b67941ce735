package models

import "time"

// Keyword is one include/exclude keyword string attached to a scanner's
// filter. FilterID is a soft reference to the scanner id: lookups for an
// unknown scanner return an empty set rather than an error, and no FK is
// enforced. Duplicate keyword text is allowed.
type Keyword struct {
	ID       int    `gorm:"primaryKey;autoIncrement" json:"id"`
	Keyword  string `gorm:"type:varchar(50);not null" json:"keyword"`
	FilterID int    `gorm:"column:filter_id;not null;index" json:"filter_id"`

	CreatedAt time.Time `gorm:"type:datetime;not null;autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Keyword) TableName() string {
	return "keywords"
}
