package routes

import (
	handlers "mecfinder/internal/handlers/admin"
	"mecfinder/internal/middleware"
	"mecfinder/pkg/websocket"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Pricing    *handlers.PricingHandler
	Catalog    *handlers.CatalogHandler
	Region     *handlers.RegionHandler
	Moderation *handlers.ModerationHandler
	Booking    *handlers.BookingHandler
	Support    *handlers.SupportHandler
	Dashboard  *handlers.DashboardHandler
	Health     *handlers.HealthHandler
	WebSocket  *websocket.Handler

	// WebSocketPath defaults to /ws.
	WebSocketPath string
}

// SetupRoutes mounts the public probes, the event stream and the /api tree.
func SetupRoutes(r *gin.Engine, h *Handlers, validator middleware.TokenValidator) {
	r.GET("/health", h.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if h.WebSocket != nil {
		path := h.WebSocketPath
		if path == "" {
			path = "/ws"
		}
		r.GET(path, middleware.AuthRequired(validator, true), h.WebSocket.HandleWebSocket)
	}

	api := r.Group("/api")
	SetupAuthRoutes(api, h.Auth, validator)

	// Every authenticated admin may work the support queue.
	authed := api.Group("")
	authed.Use(middleware.AuthRequired(validator, false))
	SetupSupportRoutes(authed, h.Support)

	managed := api.Group("")
	managed.Use(middleware.AuthRequired(validator, false), middleware.RequireManager())
	SetupPricingRoutes(managed, h.Pricing)
	SetupCatalogRoutes(managed, h.Catalog)
	SetupRegionRoutes(managed, h.Region)
	SetupAccountRoutes(managed, h.Moderation, h.Booking, h.Dashboard)
}

func SetupAuthRoutes(r *gin.RouterGroup, auth *handlers.AuthHandler, validator middleware.TokenValidator) {
	admin := r.Group("/admin")
	{
		admin.POST("/login", auth.Login)
		admin.POST("/refresh", auth.Refresh)
	}

	session := r.Group("/admin")
	session.Use(middleware.AuthRequired(validator, false))
	{
		session.POST("/logout", auth.Logout)
		session.GET("/me", auth.Me)
	}
}

func SetupPricingRoutes(r *gin.RouterGroup, h *handlers.PricingHandler) {
	pricing := r.Group("/pricing")
	{
		pricing.POST("", h.Upsert)
		pricing.GET("", h.List)
		pricing.POST("/calculate", h.Calculate)
		pricing.GET("/export", h.Export)
		pricing.GET("/region/:regionId", h.ListByRegion)
		pricing.GET("/service/:serviceId", h.ListByService)
		pricing.GET("/:id", h.Get)
		pricing.PUT("/:id", h.Update)
		pricing.DELETE("/:id", h.Delete)
	}
}

func SetupCatalogRoutes(r *gin.RouterGroup, h *handlers.CatalogHandler) {
	services := r.Group("/services")
	{
		services.GET("", h.ListServices)
		services.POST("", h.CreateService)
		services.GET("/:id", h.GetService)
		services.PUT("/:id", h.UpdateService)
		services.DELETE("/:id", h.DeleteService)
		services.POST("/:id/icon", h.UploadIcon)
	}

	categories := r.Group("/services/categories")
	{
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.POST("/seed", h.SeedCategories)
		categories.PUT("/:id", h.UpdateCategory)
		categories.PATCH("/:id/status", h.SetCategoryStatus)
		categories.DELETE("/:id", h.DeleteCategory)
	}
}

func SetupRegionRoutes(r *gin.RouterGroup, h *handlers.RegionHandler) {
	regions := r.Group("/regions")
	{
		regions.GET("", h.List)
		regions.POST("", h.Create)
		regions.GET("/:id", h.Get)
		regions.PUT("/:id", h.Update)
		regions.DELETE("/:id", h.Delete)
	}
}

func SetupAccountRoutes(r *gin.RouterGroup, moderation *handlers.ModerationHandler, bookings *handlers.BookingHandler, dashboard *handlers.DashboardHandler) {
	admin := r.Group("/admin")
	{
		admin.GET("/users", moderation.ListUsers)
		admin.GET("/users/:id", moderation.GetUser)
		admin.PATCH("/users/:id/status", moderation.UpdateUserStatus)
		admin.POST("/users/:id/ban", moderation.BanUser)
		admin.POST("/users/:id/unban", moderation.UnbanUser)

		admin.GET("/mechanics", moderation.ListMechanics)
		admin.GET("/mechanics/:id", moderation.GetMechanic)
		admin.PATCH("/mechanics/:id/status", moderation.UpdateMechanicStatus)
		admin.POST("/mechanics/:id/ban", moderation.BanMechanic)
		admin.POST("/mechanics/:id/unban", moderation.UnbanMechanic)

		admin.GET("/bookings", bookings.List)
		admin.GET("/bookings/:id", bookings.Get)
		admin.PATCH("/bookings/:id/status", bookings.UpdateStatus)

		admin.GET("/dashboard/stats", dashboard.Stats)
		admin.GET("/audit/:resource/:id", dashboard.AuditHistory)
	}
}

func SetupSupportRoutes(r *gin.RouterGroup, h *handlers.SupportHandler) {
	support := r.Group("/support")
	{
		support.GET("", h.List)
		support.POST("", h.Create)
		support.GET("/stats", h.Stats)
		support.GET("/:id", h.Get)
		support.PATCH("/:id/status", h.UpdateStatus)
		support.PATCH("/:id/assign", h.Assign)
	}
}
