package models

import "time"

// DeleteLog records listings that were physically deleted by the cleanup
// service.
type DeleteLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ListingIdx int64     `gorm:"not null;index" json:"listing_idx"`
	Title      string    `gorm:"type:text" json:"title"`
	URL        string    `gorm:"type:text" json:"url"`
	DeletedAt  time.Time `gorm:"type:datetime;not null;autoCreateTime;index" json:"deleted_at"`
	Reason     string    `gorm:"type:varchar(50);not null" json:"reason"`
}

// TableName specifies the table name
func (DeleteLog) TableName() string {
	return "delete_logs"
}

// DeleteReason constants
const (
	DeleteReasonExpired   = "expired_retention"
	DeleteReasonManual    = "manual_deletion"
	DeleteReasonDataClean = "data_cleanup"
)
