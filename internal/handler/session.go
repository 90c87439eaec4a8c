package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtclock/game-session-service/internal/gameclock"
	"github.com/courtclock/game-session-service/internal/service"
	"github.com/courtclock/game-session-service/pkg/response"
)

// SessionHandler exposes the in-game operations: the period clock, the
// substitution log and the foul log.
type SessionHandler struct {
	svc service.SessionService
}

func NewSessionHandler(svc service.SessionService) *SessionHandler { return &SessionHandler{svc: svc} }

func (h *SessionHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/games/:game_id")
	{
		clock := g.Group("/clock")
		{
			clock.POST("/start", h.startClock)
			clock.POST("/pause", h.pauseClock)
			clock.POST("/adjust", h.adjustClock)
			clock.POST("/sync", h.syncClock)
		}
		subs := g.Group("/substitutions")
		{
			subs.POST("", h.submit)
			subs.GET("/:event_id/roster-before", h.rosterBefore)
			subs.PUT("/:event_id", h.edit)
			subs.DELETE("/:event_id", h.delete)
		}
		g.POST("/periods/end", h.endPeriod)
		g.POST("/fouls", h.addFoul)
	}
}

func (h *SessionHandler) startClock(c *gin.Context) {
	view, err := h.svc.StartClock(c.Request.Context(), c.Param("game_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

func (h *SessionHandler) pauseClock(c *gin.Context) {
	view, err := h.svc.PauseClock(c.Request.Context(), c.Param("game_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

type adjustClockRequest struct {
	DeltaSeconds int `json:"delta_seconds"`
}

func (h *SessionHandler) adjustClock(c *gin.Context) {
	var req adjustClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	view, err := h.svc.AdjustClock(c.Request.Context(), c.Param("game_id"), req.DeltaSeconds)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

type syncClockRequest struct {
	TimeRemaining int `json:"time_remaining"`
}

func (h *SessionHandler) syncClock(c *gin.Context) {
	var req syncClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	view, err := h.svc.SyncClock(c.Request.Context(), c.Param("game_id"), req.TimeRemaining)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

// substitutionRequest carries the event time either as raw seconds or as
// "m:ss" text from a time input; the text form wins when both are present.
type substitutionRequest struct {
	SubbedIn   []string `json:"subbed_in"`
	PlayersOut []string `json:"players_out"`
	AtTime     *int     `json:"at_time"`
	Clock      string   `json:"clock"`
}

func (r substitutionRequest) eventTime() (int, bool) {
	if r.Clock != "" {
		return gameclock.ParseClock(r.Clock)
	}
	if r.AtTime != nil {
		return *r.AtTime, true
	}
	return 0, false
}

func (h *SessionHandler) submit(c *gin.Context) {
	var req substitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	atTime, ok := req.eventTime()
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	view, err := h.svc.SubmitSubstitution(c.Request.Context(), c.Param("game_id"), req.SubbedIn, req.PlayersOut, atTime)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, view)
}

func (h *SessionHandler) rosterBefore(c *gin.Context) {
	players, err := h.svc.RosterBefore(c.Request.Context(), c.Param("game_id"), c.Param("event_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"players": players})
}

func (h *SessionHandler) edit(c *gin.Context) {
	var req substitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	atTime, ok := req.eventTime()
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	view, err := h.svc.EditSubstitution(c.Request.Context(), c.Param("game_id"), c.Param("event_id"), atTime, req.SubbedIn, req.PlayersOut)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

func (h *SessionHandler) delete(c *gin.Context) {
	view, err := h.svc.DeleteSubstitution(c.Request.Context(), c.Param("game_id"), c.Param("event_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

func (h *SessionHandler) endPeriod(c *gin.Context) {
	view, err := h.svc.EndPeriod(c.Request.Context(), c.Param("game_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, view)
}

type addFoulRequest struct {
	PlayerID      string `json:"player_id"`
	TimeRemaining *int   `json:"time_remaining"`
	Clock         string `json:"clock"`
}

func (h *SessionHandler) addFoul(c *gin.Context) {
	var req addFoulRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	at, ok := substitutionRequest{AtTime: req.TimeRemaining, Clock: req.Clock}.eventTime()
	if !ok {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	view, err := h.svc.AddFoul(c.Request.Context(), c.Param("game_id"), req.PlayerID, at)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, view)
}
