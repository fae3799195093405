package model

import "time"

// RideType classifies an attraction.
type RideType string

const (
	RideTypeThrill   RideType = "thrill"
	RideTypeFamily   RideType = "family"
	RideTypeShow     RideType = "show"
	RideTypeWater    RideType = "water"
	RideTypeDarkRide RideType = "dark_ride"
	RideTypeSpinner  RideType = "spinner"
)

// LightningLaneSlot is one Lightning Lane return window entry.
type LightningLaneSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Ride represents a single attraction within a park.
// CurrentWaitMinutes is nil until the first sync observes the ride.
type Ride struct {
	ID                 int64               `gorm:"primaryKey" json:"id"`
	ParkID             int64               `gorm:"index;not null" json:"parkId"`
	Name               string              `gorm:"size:256;not null;index" json:"name"`
	Land               string              `gorm:"size:128" json:"land"`
	Type               RideType            `gorm:"size:32" json:"type"`
	IsOpen             bool                `gorm:"not null;default:false" json:"isOpen"`
	CurrentWaitMinutes *int                `json:"currentWaitMinutes"`
	AvgWaitMinutes     int                 `json:"avgWaitMinutes"`
	PeakWaitMinutes    int                 `json:"peakWaitMinutes"`
	HasLightningLane   bool                `gorm:"not null;default:false" json:"hasLightningLane"`
	LightningLaneTimes []LightningLaneSlot `gorm:"serializer:json" json:"lightningLaneTimes"`
	HeightRequirement  string              `gorm:"size:64" json:"heightRequirement"`
	LastUpdated        time.Time           `json:"lastUpdated"`
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// Associations
	Park Park `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
