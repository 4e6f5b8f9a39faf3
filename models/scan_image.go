package models

import "time"

// ScanImage is an uploaded photo of one card side awaiting or finished with
// text recognition. Failed scans are kept for review instead of deleted.
type ScanImage struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FileName    string `gorm:"size:255;not null"`
	StorePath   string `gorm:"column:store_path;size:512"`
	ContentType string `gorm:"size:128"`
	CardID      uint   `gorm:"index;not null"`
	Card        Card   `gorm:"foreignKey:CardID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// Side is "front" or "back"; it decides which fields the scan can fill.
	Side      string `gorm:"size:8;not null;default:'front'"`
	Processed bool   `gorm:"default:false;index"`
	// Mark the scan as failed (do not delete the record so the user/admin can review)
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
