package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"park-waits-backend/internal/forecast"
	"park-waits-backend/internal/model"
	"park-waits-backend/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Park{}, &model.Ride{}, &model.WaitTimeHistory{}, &model.ParkHours{}, &model.PushSubscription{},
	))

	router := NewRouter(store.NewGormStore(db), &webpush.Options{VAPIDPublicKey: "test-public-key"})
	return router, db
}

func seedPark(t *testing.T, db *gorm.DB) model.Park {
	park := model.Park{ID: 1, Name: "Magic Kingdom", Slug: "magic-kingdom", OperatingHours: "9:00 AM - 10:00 PM"}
	require.NoError(t, db.Create(&park).Error)
	return park
}

func doJSON(t *testing.T, router *gin.Engine, method, url, body string, out any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w
}

func TestGetParks(t *testing.T) {
	router, db := newTestRouter(t)
	park := seedPark(t, db)

	hidden := model.Park{ID: 2, Name: "Internal Test Park", Slug: "test-park", IsHidden: true}
	require.NoError(t, db.Create(&hidden).Error)

	wait := 25
	require.NoError(t, db.Create(&model.Ride{ID: 10, ParkID: park.ID, Name: "Space Mountain", IsOpen: true, CurrentWaitMinutes: &wait}).Error)
	require.NoError(t, db.Create(&model.Ride{ID: 11, ParkID: park.ID, Name: "Haunted Mansion", IsOpen: false}).Error)

	var parks []ParkResponse
	w := doJSON(t, router, http.MethodGet, "/api/parks", "", &parks)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, parks, 1, "hidden parks are not listed")
	assert.Equal(t, "Magic Kingdom", parks[0].Name)
	assert.Equal(t, int64(2), parks[0].TotalRides)
	assert.Equal(t, int64(1), parks[0].OpenRides)
	assert.Equal(t, "9:00 AM - 10:00 PM", parks[0].OperatingHours)
}

func TestGetParkRides(t *testing.T) {
	router, db := newTestRouter(t)
	park := seedPark(t, db)

	wait := 25
	require.NoError(t, db.Create(&model.Ride{ID: 10, ParkID: park.ID, Name: "Space Mountain", Land: "Tomorrowland", IsOpen: true, CurrentWaitMinutes: &wait}).Error)
	require.NoError(t, db.Create(&model.Ride{ID: 11, ParkID: park.ID, Name: "Haunted Mansion", Land: "Liberty Square", IsOpen: false}).Error)

	var rides []model.Ride
	w := doJSON(t, router, http.MethodGet, "/api/parks/1/rides", "", &rides)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rides, 2)
	assert.Equal(t, "Haunted Mansion", rides[0].Name, "sorted by name")

	rides = nil
	w = doJSON(t, router, http.MethodGet, "/api/parks/1/rides?open=true", "", &rides)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, rides, 1)
	assert.Equal(t, "Space Mountain", rides[0].Name)

	w = doJSON(t, router, http.MethodGet, "/api/parks/abc/rides", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetParkHours(t *testing.T) {
	router, db := newTestRouter(t)
	park := seedPark(t, db)
	require.NoError(t, db.Create(&model.ParkHours{
		ParkID: park.ID, Date: "2026-07-14", OpenTime: "9:00 AM", CloseTime: "10:00 PM",
	}).Error)

	var body map[string]any
	w := doJSON(t, router, http.MethodGet, "/api/parks/1/hours?date=2026-07-14", "", &body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "9:00 AM", body["openTime"])

	w = doJSON(t, router, http.MethodGet, "/api/parks/1/hours?date=2026-07-15", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/parks/1/hours", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// A history row written for hour H must come back as that hour's
// historical point.
func TestGetRideForecast_UsesRecordedHistory(t *testing.T) {
	router, db := newTestRouter(t)
	park := seedPark(t, db)
	require.NoError(t, db.Create(&model.Ride{
		ID: 10, ParkID: park.ID, Name: "Space Mountain",
		AvgWaitMinutes: 20, PeakWaitMinutes: 40,
	}).Error)
	require.NoError(t, db.Create(&model.ParkHours{
		ParkID: park.ID, Date: "2026-07-14", OpenTime: "9:00 AM", CloseTime: "9:00 PM",
	}).Error)
	require.NoError(t, db.Create(&model.WaitTimeHistory{
		RideID: 10, ParkID: park.ID, WaitMinutes: 55,
		RecordedAt: time.Date(2026, 7, 7, 14, 0, 0, 0, time.UTC), HourOfDay: 14, DayOfWeek: 2,
	}).Error)

	var body struct {
		RideID   int64            `json:"rideId"`
		Points   []forecast.Point `json:"points"`
		BestSlot *forecast.Point  `json:"bestSlot"`
	}
	w := doJSON(t, router, http.MethodGet, "/api/rides/10/forecast?date=2026-07-14", "", &body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body.Points, 12)
	require.NotNil(t, body.BestSlot)

	var found bool
	for _, p := range body.Points {
		if p.Hour == 14 {
			found = true
			assert.True(t, p.IsHistorical)
			assert.Equal(t, 55, p.WaitMinutes)
		} else {
			assert.False(t, p.IsHistorical)
		}
	}
	assert.True(t, found)

	w = doJSON(t, router, http.MethodGet, "/api/rides/999/forecast?date=2026-07-14", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/rides/10/forecast?date=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionLifecycle(t *testing.T) {
	router, db := newTestRouter(t)
	park := seedPark(t, db)
	require.NoError(t, db.Create(&model.Ride{ID: 10, ParkID: park.ID, Name: "Space Mountain"}).Error)

	put := `{"endpoint":"https://push.example/abc","p256dh":"k","auth":"a","subscribed_rides":[10]}`
	w := doJSON(t, router, http.MethodPut, "/api/subscriptions", put, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		SubscribedRides []int64 `json:"subscribed_rides"`
	}
	w = doJSON(t, router, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", "", &body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{10}, body.SubscribedRides)

	w = doJSON(t, router, http.MethodDelete, "/api/subscriptions", `{"endpoint":"https://push.example/abc"}`, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/subscriptions?endpoint=https://push.example/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	router, _ := newTestRouter(t)

	var body map[string]string
	w := doJSON(t, router, http.MethodGet, "/api/vapid_public_key", "", &body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "test-public-key", body["public_key"])
}
