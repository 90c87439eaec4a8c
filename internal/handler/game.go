package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtclock/game-session-service/internal/service"
	"github.com/courtclock/game-session-service/pkg/response"
)

type GameHandler struct {
	svc service.GameService
}

func NewGameHandler(svc service.GameService) *GameHandler { return &GameHandler{svc: svc} }

func (h *GameHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/games")
	{
		g.POST("", h.create)
		// Use a stable wildcard name (game_id) so nested routes (clock, subs) can reuse it without Gin conflicts.
		g.GET("/:game_id", h.getByID)
		g.GET("", h.list)
		g.DELETE("/:game_id", h.delete)
		g.POST("/:game_id/players", h.addPlayer)
	}
}

type createGameRequest struct {
	Team         string                 `json:"team"`
	Opponent     string                 `json:"opponent"`
	Date         string                 `json:"date"` // RFC3339
	Periods      int                    `json:"periods"`
	PeriodLength int                    `json:"period_length"`
	Players      []service.PlayerParams `json:"players"`
}

func (h *GameHandler) create(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput) // don't leak parser internals
		return
	}
	parsedDate, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	view, err := h.svc.CreateGame(c.Request.Context(), service.CreateGameParams{
		Team:         req.Team,
		Opponent:     req.Opponent,
		Date:         parsedDate,
		Periods:      req.Periods,
		PeriodLength: req.PeriodLength,
		Players:      req.Players,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, view)
}

func (h *GameHandler) getByID(c *gin.Context) {
	view, err := h.svc.GetGame(c.Request.Context(), c.Param("game_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

func (h *GameHandler) list(c *gin.Context) {
	res, err := h.svc.ListGames(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}

func (h *GameHandler) delete(c *gin.Context) {
	if err := h.svc.DeleteGame(c.Request.Context(), c.Param("game_id")); err != nil {
		response.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GameHandler) addPlayer(c *gin.Context) {
	var req service.PlayerParams
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	view, err := h.svc.AddPlayer(c.Request.Context(), c.Param("game_id"), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, view)
}
