package model

import "time"

// WaitTimeHistory is one observed wait-time sample for a ride.
// Rows are append-only; RideID is a weak reference so history survives
// ride renames and is never cascaded away.
type WaitTimeHistory struct {
	ID          int64     `gorm:"autoIncrement;primaryKey"`
	RideID      int64     `gorm:"not null;index:idx_history_ride_recorded"`
	ParkID      int64     `gorm:"not null;index"`
	WaitMinutes int       `gorm:"not null"`
	RecordedAt  time.Time `gorm:"not null;index:idx_history_ride_recorded"`
	HourOfDay   int       `gorm:"not null;index"`
	DayOfWeek   int       `gorm:"not null"`
}
