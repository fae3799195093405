package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"park-waits-backend/internal/forecast"
	"park-waits-backend/internal/model"
)

// forecastResponse is the charted forecast for one ride and date.
type forecastResponse struct {
	RideID   int64            `json:"rideId"`
	RideName string           `json:"rideName"`
	Date     string           `json:"date"`
	Points   []forecast.Point `json:"points"`
	BestSlot *forecast.Point  `json:"bestSlot"`
}

// GetRideForecast handles the GET /api/rides/{ride_id}/forecast request.
// An omitted date defaults to today.
func (h *Handler) GetRideForecast(c *gin.Context) {
	rideID, err := strconv.ParseInt(c.Param("ride_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid ride ID"})
		return
	}

	dateParam := c.Query("date")
	var target time.Time
	if dateParam == "" {
		target = time.Now()
		dateParam = target.Format("2006-01-02")
	} else {
		target, err = time.Parse("2006-01-02", dateParam)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
	}

	var ride model.Ride
	if err := h.store.DB().First(&ride, rideID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Ride not found"})
		} else {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ride"})
		}
		return
	}

	samples, err := h.store.HistoryForRide(c.Request.Context(), rideID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve history"})
		return
	}

	hours, err := h.store.HoursForPark(c.Request.Context(), ride.ParkID, dateParam)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve park hours"})
		return
	}

	points := forecast.HourlyCurve(ride, samples, target, hours)
	c.JSON(http.StatusOK, forecastResponse{
		RideID:   ride.ID,
		RideName: ride.Name,
		Date:     dateParam,
		Points:   points,
		BestSlot: forecast.BestSlot(points),
	})
}
