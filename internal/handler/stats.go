package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtclock/game-session-service/internal/service"
	"github.com/courtclock/game-session-service/pkg/response"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) Register(r *gin.RouterGroup) {
	r.GET("/games/:game_id/stats", h.gameStats)
}

func (h *StatsHandler) gameStats(c *gin.Context) {
	stats, err := h.svc.GameStats(c.Request.Context(), c.Param("game_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, stats)
}
