package handlers

import "github.com/gin-gonic/gin"

// Handlers groups the API's HTTP handlers
type Handlers struct {
	Trips    *TripHandler
	Airports *AirportHandler
	Routes   *RouteHandler
	Admin    *AdminHandler
}

// Register mounts every endpoint on the v1 group. auth guards trip
// endpoints; admin endpoints are guarded by auth followed by admin.
func (h *Handlers) Register(v1 *gin.RouterGroup, auth gin.HandlerFunc, admin gin.HandlerFunc) {
	airports := v1.Group("/airports")
	{
		airports.GET("", h.Airports.ListAirports)
		airports.GET("/:code", h.Airports.GetAirport)
		airports.GET("/:code/nearby", h.Airports.Nearby)
	}
	v1.GET("/distance", h.Airports.Distance)

	airlines := v1.Group("/airlines")
	{
		airlines.GET("", h.Routes.ListAirlines)
		airlines.GET("/:code", h.Routes.GetAirline)
	}

	routes := v1.Group("/routes")
	{
		routes.GET("", h.Routes.ListFrom)
		routes.GET("/:source/:destination/:airline", h.Routes.GetRoute)
	}

	trips := v1.Group("/trips")
	trips.Use(auth)
	{
		trips.POST("", h.Trips.CreateTrip)
		trips.GET("", h.Trips.ListTrips)
		trips.GET("/:id", h.Trips.GetTrip)
		trips.DELETE("/:id", h.Trips.DeleteTrip)
		trips.GET("/:id/itinerary", h.Trips.GetItinerary)
		trips.POST("/:id/legs", h.Trips.AddLeg)
		trips.DELETE("/:id/legs/:leg_id", h.Trips.RemoveLeg)
	}

	adminGroup := v1.Group("/admin")
	adminGroup.Use(auth, admin)
	{
		adminGroup.POST("/schedules/backfill", h.Admin.RunBackfill)
		adminGroup.POST("/routes/:source/:destination/:airline/synthesize", h.Admin.SynthesizeRoute)
		adminGroup.GET("/cron/status", h.Admin.CronStatus)
		adminGroup.GET("/audit", h.Admin.AuditLog)
	}
}
