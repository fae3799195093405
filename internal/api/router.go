package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"park-waits-backend/internal/mw"
	"park-waits-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s, webpushOptions)

	// Rate limit: 10 requests per second with a burst of 5
	rateLimiter := mw.RateLimiter(rate.Limit(10), 5)

	// Live wait times change on a minutes cadence; a short cache keeps
	// responses fresh while absorbing chart-page fan-out.
	cacheStore := cache.New(time.Minute, 5*time.Minute)
	caching := mw.Cache(cacheStore, time.Minute)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/parks", caching, GetParks(db))
		api.GET("/parks/:park_id/rides", caching, GetParkRides(db))
		api.GET("/parks/:park_id/hours", caching, handler.GetParkHours)

		api.GET("/rides/:ride_id/forecast", caching, handler.GetRideForecast)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
