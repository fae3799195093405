package model

import "time"

// ParkHours holds the operating window for one park on one calendar day.
// Time columns are 12-hour clock display strings ("9:00 AM"); Date is
// "YYYY-MM-DD". At most one row exists per (park, date).
type ParkHours struct {
	ID                 int64  `gorm:"autoIncrement;primaryKey"`
	ParkID             int64  `gorm:"not null;uniqueIndex:idx_park_hours_day"`
	Date               string `gorm:"size:10;not null;uniqueIndex:idx_park_hours_day"`
	OpenTime           string `gorm:"size:16"`
	CloseTime          string `gorm:"size:16"`
	EarlyEntryTime     string `gorm:"size:16"`
	ExtendedHoursClose string `gorm:"size:16"`
	IsClosed           bool   `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
