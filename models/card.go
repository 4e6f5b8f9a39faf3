package models

import "time"

// Card is a stored wallet card. Extracted fields are kept as the canonical
// display strings the scan engine produces; the security code is deliberately
// never persisted, it only travels in the scan response.
type Card struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	UserID    uint       `gorm:"index;not null"`
	Label     string     `gorm:"size:255;not null"`
	// Category stores the kind tag ("credit", "debit", "transport", ...);
	// custom categories additionally fill CustomName/CustomColor.
	Category    string `gorm:"size:32;not null;default:'custom'"`
	CustomName  string `gorm:"size:255"`
	CustomColor string `gorm:"size:16"`
	Number      string `gorm:"size:32"` // space-grouped digits
	ExpiryDate  string `gorm:"size:8"`  // MM/YY
	HolderName  string `gorm:"size:255"`
	// FacePath is the rendered gradient face image, relative to the public dir.
	FacePath string `gorm:"size:512"`
	Scans    []ScanImage `gorm:"foreignKey:CardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
