package model

import "time"

// Park represents a tracked theme park.
type Park struct {
	ID             int64  `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Slug           string `gorm:"uniqueIndex;size:128;not null" json:"slug"`
	IsHidden       bool   `gorm:"not null;default:false" json:"isHidden"`
	OperatingHours string `gorm:"size:64" json:"operatingHours"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Associations
	Rides []Ride `gorm:"foreignKey:ParkID"`
}
