package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/courtclock/game-session-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, gameSvc service.GameService, sessionSvc service.SessionService, statsSvc service.StatsService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewGameHandler(gameSvc).Register(api)
		NewSessionHandler(sessionSvc).Register(api)
		NewStatsHandler(statsSvc).Register(api)
	}
}
