package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"park-waits-backend/internal/model"
)

// GetParkRides handles the GET /api/parks/{park_id}/rides request.
func GetParkRides(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		parkID, err := strconv.ParseInt(c.Param("park_id"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid park ID"})
			return
		}

		var rides []model.Ride
		query := db.Where("park_id = ?", parkID).Order("name ASC")
		if land := c.Query("land"); land != "" {
			query = query.Where("land = ?", land)
		}
		if c.Query("open") == "true" {
			query = query.Where("is_open = ?", true)
		}
		if err := query.Find(&rides).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rides"})
			return
		}

		c.JSON(http.StatusOK, rides)
	}
}
