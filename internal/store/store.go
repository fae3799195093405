package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"park-waits-backend/internal/model"
)

// RideStateUpdate is the live-state portion of a ride that a sync cycle
// overwrites. Fields are always written, including zero values, so a
// closed ride's wait is forced to 0 rather than left stale.
type RideStateUpdate struct {
	WaitMinutes        int
	IsOpen             bool
	LightningLaneTimes []model.LightningLaneSlot
	LastUpdated        time.Time
}

// Store defines the interface for all database operations the engines
// need. Handlers that only read use DB() directly, as the API layer does.
type Store interface {
	DB() *gorm.DB
	ListParks(ctx context.Context) ([]model.Park, error)
	ListRides(ctx context.Context) ([]model.Ride, error)
	CreateRides(ctx context.Context, rides []model.Ride) error
	UpdateRideState(ctx context.Context, rideID int64, update RideStateUpdate) error
	CloseRide(ctx context.Context, rideID int64) error
	UpdateParkOperatingHours(ctx context.Context, parkID int64, display string) error
	BulkCreateHistory(ctx context.Context, rows []model.WaitTimeHistory) error
	HistoryForRide(ctx context.Context, rideID int64) ([]model.WaitTimeHistory, error)
	ParkHoursOn(ctx context.Context, date string) (map[int64]model.ParkHours, error)
	HoursForPark(ctx context.Context, parkID int64, date string) (*model.ParkHours, error)
	UpsertParkHours(ctx context.Context, hours model.ParkHours) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for read-path handlers.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ListParks returns every park, hidden ones included. The sync engine
// matches against the full set; visibility is an API concern.
func (s *gormStore) ListParks(ctx context.Context) ([]model.Park, error) {
	var parks []model.Park
	if err := s.db.WithContext(ctx).Find(&parks).Error; err != nil {
		return nil, fmt.Errorf("failed to list parks: %w", err)
	}
	return parks, nil
}

// ListRides returns every ride across all parks in one round trip; sync
// cycles preload this once instead of querying per park.
func (s *gormStore) ListRides(ctx context.Context) ([]model.Ride, error) {
	var rides []model.Ride
	if err := s.db.WithContext(ctx).Find(&rides).Error; err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	return rides, nil
}

// CreateRides inserts newly imported rides in one batch.
func (s *gormStore) CreateRides(ctx context.Context, rides []model.Ride) error {
	if len(rides) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&rides).Error; err != nil {
		return fmt.Errorf("failed to create %d rides: %w", len(rides), err)
	}
	return nil
}

// UpdateRideState overwrites a ride's live fields. Updates go through a
// column map so false/zero values are written, not skipped.
func (s *gormStore) UpdateRideState(ctx context.Context, rideID int64, update RideStateUpdate) error {
	columns := map[string]any{
		"current_wait_minutes": update.WaitMinutes,
		"is_open":              update.IsOpen,
		"last_updated":         update.LastUpdated,
	}
	if len(update.LightningLaneTimes) > 0 {
		columns["has_lightning_lane"] = true
		columns["lightning_lane_times"] = update.LightningLaneTimes
	}

	result := s.db.WithContext(ctx).Model(&model.Ride{}).Where("id = ?", rideID).Updates(columns)
	if result.Error != nil {
		return fmt.Errorf("failed to update ride %d: %w", rideID, result.Error)
	}
	return nil
}

// CloseRide forces a ride closed with a zero wait. Used by the status
// reconciler when the owning park is outside its operating hours.
func (s *gormStore) CloseRide(ctx context.Context, rideID int64) error {
	columns := map[string]any{
		"is_open":              false,
		"current_wait_minutes": 0,
		"last_updated":         time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Model(&model.Ride{}).Where("id = ?", rideID).Updates(columns).Error; err != nil {
		return fmt.Errorf("failed to close ride %d: %w", rideID, err)
	}
	return nil
}

// UpdateParkOperatingHours refreshes a park's display hours string.
func (s *gormStore) UpdateParkOperatingHours(ctx context.Context, parkID int64, display string) error {
	if err := s.db.WithContext(ctx).Model(&model.Park{}).Where("id = ?", parkID).
		Update("operating_hours", display).Error; err != nil {
		return fmt.Errorf("failed to update operating hours for park %d: %w", parkID, err)
	}
	return nil
}

// BulkCreateHistory appends wait-time samples in one batch per park.
// History is append-only; there is no conflict handling because rows
// are never rewritten.
func (s *gormStore) BulkCreateHistory(ctx context.Context, rows []model.WaitTimeHistory) error {
	if len(rows) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to insert %d history rows: %w", len(rows), err)
	}
	return nil
}

// HistoryForRide returns every recorded sample for a ride, oldest first.
func (s *gormStore) HistoryForRide(ctx context.Context, rideID int64) ([]model.WaitTimeHistory, error) {
	var rows []model.WaitTimeHistory
	if err := s.db.WithContext(ctx).
		Where("ride_id = ?", rideID).
		Order("recorded_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load history for ride %d: %w", rideID, err)
	}
	return rows, nil
}

// ParkHoursOn returns the hours rows for a calendar day, keyed by park.
// Parks with no row are absent from the map; the reconciler treats
// absence as closed.
func (s *gormStore) ParkHoursOn(ctx context.Context, date string) (map[int64]model.ParkHours, error) {
	var rows []model.ParkHours
	if err := s.db.WithContext(ctx).Where("date = ?", date).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load park hours for %s: %w", date, err)
	}
	hoursMap := make(map[int64]model.ParkHours, len(rows))
	for _, r := range rows {
		hoursMap[r.ParkID] = r
	}
	return hoursMap, nil
}

// HoursForPark returns one park's hours row for a day, or nil if none
// exists.
func (s *gormStore) HoursForPark(ctx context.Context, parkID int64, date string) (*model.ParkHours, error) {
	var row model.ParkHours
	err := s.db.WithContext(ctx).
		Where("park_id = ? AND date = ?", parkID, date).
		First(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load hours for park %d on %s: %w", parkID, date, err)
	}
	return &row, nil
}

// UpsertParkHours creates or replaces the hours row for one park/day.
// The hours-ingestion collaborator calls this; at most one row may exist
// per (park, date).
func (s *gormStore) UpsertParkHours(ctx context.Context, hours model.ParkHours) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "park_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"open_time", "close_time", "early_entry_time", "extended_hours_close", "is_closed", "updated_at",
		}),
	}).Create(&hours).Error
	if err != nil {
		return fmt.Errorf("failed to upsert hours for park %d on %s: %w", hours.ParkID, hours.Date, err)
	}
	return nil
}
