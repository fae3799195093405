package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"park-waits-backend/internal/model"
)

// ParkResponse represents the API response for a single park.
type ParkResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	OperatingHours string `json:"operatingHours"`
	TotalRides     int64  `json:"totalRides"`
	OpenRides      int64  `json:"openRides"`
}

// GetParks handles the GET /api/parks request.
func GetParks(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var parks []model.Park
		if err := db.Where("is_hidden = ?", false).Find(&parks).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve parks"})
			return
		}

		// One aggregate pass over rides instead of a query per park.
		type aggRow struct {
			ParkID     int64
			TotalRides int64
			OpenRides  int64
		}
		var aggs []aggRow
		if err := db.
			Model(&model.Ride{}).
			Select("park_id as park_id, COUNT(*) as total_rides, SUM(CASE WHEN is_open THEN 1 ELSE 0 END) as open_rides").
			Group("park_id").
			Scan(&aggs).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate rides"})
			return
		}

		aggMap := make(map[int64]aggRow, len(aggs))
		for _, a := range aggs {
			aggMap[a.ParkID] = a
		}

		responses := make([]ParkResponse, 0, len(parks))
		for _, p := range parks {
			a := aggMap[p.ID]
			responses = append(responses, ParkResponse{
				ID: p.ID, Name: p.Name, Slug: p.Slug,
				OperatingHours: p.OperatingHours,
				TotalRides:     a.TotalRides, OpenRides: a.OpenRides,
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}

// GetParkHours handles the GET /api/parks/{park_id}/hours request.
func (h *Handler) GetParkHours(c *gin.Context) {
	parkID, err := strconv.ParseInt(c.Param("park_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid park ID"})
		return
	}

	date := c.Query("date")
	if date == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date is required (YYYY-MM-DD)"})
		return
	}

	hours, err := h.store.HoursForPark(c.Request.Context(), parkID, date)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve park hours"})
		return
	}
	if hours == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No hours recorded for that date"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"parkId":             hours.ParkID,
		"date":               hours.Date,
		"openTime":           hours.OpenTime,
		"closeTime":          hours.CloseTime,
		"earlyEntryTime":     hours.EarlyEntryTime,
		"extendedHoursClose": hours.ExtendedHoursClose,
		"isClosed":           hours.IsClosed,
	})
}
