package status

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"park-waits-backend/config"
	"park-waits-backend/internal/model"
	"park-waits-backend/internal/store"
)

func newTestDB(t *testing.T) *gorm.DB {
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Park{}, &model.Ride{}, &model.WaitTimeHistory{}, &model.ParkHours{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Sync: config.SyncConfig{Timezone: "America/New_York"},
	}
}

// pinClock fixes the reconciler's clock to the given Eastern wall time
// on 2026-07-14.
func pinClock(t *testing.T, r *Reconciler, hour, minute int) {
	eastern, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	fixed := time.Date(2026, 7, 14, hour, minute, 0, 0, eastern)
	r.SetNow(func() time.Time { return fixed })
}

func seed(t *testing.T, db *gorm.DB, rideOpen bool, wait *int) (model.Park, model.Ride) {
	park := model.Park{ID: 1, Name: "Magic Kingdom", Slug: "magic-kingdom"}
	require.NoError(t, db.Create(&park).Error)
	ride := model.Ride{
		ID:                 10,
		ParkID:             park.ID,
		Name:               "Space Mountain",
		IsOpen:             rideOpen,
		CurrentWaitMinutes: wait,
	}
	require.NoError(t, db.Create(&ride).Error)
	return park, ride
}

func hoursRow(parkID int64, open, close string, isClosed bool) model.ParkHours {
	return model.ParkHours{
		ParkID:    parkID,
		Date:      "2026-07-14",
		OpenTime:  open,
		CloseTime: close,
		IsClosed:  isClosed,
	}
}

func TestReconcile_ClosedFlagForcesRidesClosed(t *testing.T) {
	db := newTestDB(t)
	wait := 30
	park, ride := seed(t, db, true, &wait)
	require.NoError(t, db.Create(&model.ParkHours{ParkID: park.ID, Date: "2026-07-14", IsClosed: true}).Error)

	r := NewReconciler(testConfig(), store.NewGormStore(db))
	pinClock(t, r, 12, 0)

	result := r.ReconcileOnce(context.Background())
	assert.Equal(t, 1, result.ParksClosed)
	assert.Equal(t, 1, result.RidesClosed)

	var got model.Ride
	require.NoError(t, db.First(&got, ride.ID).Error)
	assert.False(t, got.IsOpen)
	require.NotNil(t, got.CurrentWaitMinutes)
	assert.Equal(t, 0, *got.CurrentWaitMinutes)
}

func TestReconcile_NoHoursRowMeansClosed(t *testing.T) {
	db := newTestDB(t)
	wait := 15
	_, ride := seed(t, db, true, &wait)

	r := NewReconciler(testConfig(), store.NewGormStore(db))
	pinClock(t, r, 12, 0)

	result := r.ReconcileOnce(context.Background())
	assert.Equal(t, 1, result.ParksClosed)
	assert.Equal(t, 1, result.RidesClosed)

	var got model.Ride
	require.NoError(t, db.First(&got, ride.ID).Error)
	assert.False(t, got.IsOpen)
}

func TestReconcile_WithinWindowLeavesRidesAlone(t *testing.T) {
	db := newTestDB(t)
	wait := 30
	park, ride := seed(t, db, true, &wait)
	hours := hoursRow(park.ID, "9:00 AM", "10:00 PM", false)
	require.NoError(t, db.Create(&hours).Error)

	r := NewReconciler(testConfig(), store.NewGormStore(db))
	pinClock(t, r, 14, 30)

	result := r.ReconcileOnce(context.Background())
	assert.Equal(t, 1, result.ParksOpen)
	assert.Equal(t, 0, result.RidesClosed)

	var got model.Ride
	require.NoError(t, db.First(&got, ride.ID).Error)
	assert.True(t, got.IsOpen)
	require.NotNil(t, got.CurrentWaitMinutes)
	assert.Equal(t, 30, *got.CurrentWaitMinutes)
}

func TestReconcile_WindowBoundaries(t *testing.T) {
	testCases := []struct {
		name       string
		hour       int
		minute     int
		wantClosed bool
	}{
		{name: "before open", hour: 8, minute: 59, wantClosed: true},
		{name: "open boundary is inclusive", hour: 9, minute: 0, wantClosed: false},
		{name: "midday", hour: 13, minute: 0, wantClosed: false},
		{name: "minute before close", hour: 21, minute: 59, wantClosed: false},
		{name: "close boundary is exclusive", hour: 22, minute: 0, wantClosed: true},
		{name: "late night", hour: 23, minute: 30, wantClosed: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			wait := 20
			park, ride := seed(t, db, true, &wait)
			hours := hoursRow(park.ID, "9:00 AM", "10:00 PM", false)
			require.NoError(t, db.Create(&hours).Error)

			r := NewReconciler(testConfig(), store.NewGormStore(db))
			pinClock(t, r, tc.hour, tc.minute)
			r.ReconcileOnce(context.Background())

			var got model.Ride
			require.NoError(t, db.First(&got, ride.ID).Error)
			assert.Equal(t, !tc.wantClosed, got.IsOpen)
		})
	}
}

// Running twice in a row with unchanged hours must not write twice.
func TestReconcile_SecondRunIsNoOp(t *testing.T) {
	db := newTestDB(t)
	wait := 30
	park, _ := seed(t, db, true, &wait)
	require.NoError(t, db.Create(&model.ParkHours{ParkID: park.ID, Date: "2026-07-14", IsClosed: true}).Error)

	r := NewReconciler(testConfig(), store.NewGormStore(db))
	pinClock(t, r, 12, 0)

	first := r.ReconcileOnce(context.Background())
	assert.Equal(t, 1, first.RidesClosed)
	assert.Equal(t, 1, first.HoursSynced)

	second := r.ReconcileOnce(context.Background())
	assert.Equal(t, 0, second.RidesClosed, "converged pass must not rewrite rides")
	assert.Equal(t, 0, second.HoursSynced)
}

func TestReconcile_UpdatesOperatingHoursDisplay(t *testing.T) {
	db := newTestDB(t)
	park, _ := seed(t, db, false, nil)
	hours := hoursRow(park.ID, "9:00 AM", "10:00 PM", false)
	require.NoError(t, db.Create(&hours).Error)

	r := NewReconciler(testConfig(), store.NewGormStore(db))
	pinClock(t, r, 12, 0)
	r.ReconcileOnce(context.Background())

	var got model.Park
	require.NoError(t, db.First(&got, park.ID).Error)
	assert.Equal(t, "9:00 AM - 10:00 PM", got.OperatingHours)
}
