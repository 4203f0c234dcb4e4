package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
	auditService     services.AuditService
	logger           *logger.Logger
}

func NewDashboardHandler(dashboardService services.DashboardService, auditService services.AuditService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		auditService:     auditService,
		logger:           logger,
	}
}

// Stats serves the cached dashboard; ?refresh=true recomputes it.
func (h *DashboardHandler) Stats(c *gin.Context) {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))

	dashboard, err := h.dashboardService.Get(c.Request.Context(), refresh)
	if err != nil {
		respondError(c, h.logger, err, "Dashboard")
		return
	}

	utils.SuccessResponse(c, "", gin.H{
		"stats":          dashboard.Stats,
		"recentBookings": dashboard.RecentBookings,
	})
}

// AuditHistory lists the audit trail of one resource, newest first.
func (h *DashboardHandler) AuditHistory(c *gin.Context) {
	resource := c.Param("resource")
	if _, ok := objectIDParam(c, "id", resource); !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	logs, total, err := h.auditService.History(c.Request.Context(), resource, c.Param("id"), params)
	if err != nil {
		respondError(c, h.logger, err, "Audit log")
		return
	}

	utils.PaginatedResponse(c, "logs", logs, utils.CreatePaginationMeta(params, total))
}

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	version string
}

func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, version: version}
}

// Health reports 503 when any dependency fails its ping.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	c.JSON(status, gin.H{
		"success":      status == http.StatusOK,
		"version":      h.version,
		"dependencies": deps,
		"timestamp":    time.Now().UTC(),
	})
}
