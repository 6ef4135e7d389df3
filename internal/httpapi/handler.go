// Package httpapi serves merged rosters, free agents, valuations and the
// player directory over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tyler180/fantasy-roster-values/internal/metrics"
	"github.com/tyler180/fantasy-roster-values/internal/players"
	"github.com/tyler180/fantasy-roster-values/internal/roster"
)

// Service is what the handlers need from roster.Service.
type Service interface {
	DirectoryLoaded() bool

	SleeperLeague(ctx context.Context, leagueID string) (players.LeagueFormat, error)
	SleeperManagers(ctx context.Context, leagueID string) ([]players.Manager, error)
	SleeperRoster(ctx context.Context, leagueID, rosterID string, q roster.Query) (roster.RosterView, error)
	SleeperFreeAgents(ctx context.Context, leagueID string, q roster.Query) (roster.FreeAgentsView, error)

	FleaflickerLeague(ctx context.Context, leagueID string) (players.LeagueFormat, error)
	FleaflickerManagers(ctx context.Context, leagueID string) ([]players.Manager, error)
	FleaflickerRoster(ctx context.Context, leagueID, rosterID string, q roster.Query) (roster.RosterView, error)
	FleaflickerFreeAgents(ctx context.Context, leagueID string, q roster.Query) (roster.FreeAgentsView, error)

	Values(ctx context.Context, o players.RulesetOverride) (map[string]players.Valuation, error)
	Players(ctx context.Context) ([]players.CanonicalPlayer, error)
	Player(ctx context.Context, id string) (players.CanonicalPlayer, error)
	AnalysisBatch(ctx context.Context, ids []string) ([]players.AnalysisRecord, error)
}

type Handler struct {
	svc     Service
	logger  *slog.Logger
	metrics *metrics.Recorder
}

// NewRouter builds the gin engine with every route and middleware. A nil
// recorder disables /metrics.
func NewRouter(svc Service, logger *slog.Logger, rec *metrics.Recorder) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{svc: svc, logger: logger, metrics: rec}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(h), AccessLog(h), Metrics(rec))

	r.GET("/health", h.health)
	if rec != nil {
		r.GET("/metrics", gin.WrapH(rec.Handler()))
	}

	api := r.Group("/api")
	sl := api.Group("/sleeper/league/:leagueId")
	sl.GET("", h.sleeperLeague)
	sl.GET("/managers", h.sleeperManagers)
	sl.GET("/roster/:rosterId", h.sleeperRoster)
	sl.GET("/free-agents", h.sleeperFreeAgents)

	ff := api.Group("/fleaflicker/league/:leagueId")
	ff.GET("", h.fleaflickerLeague)
	ff.GET("/managers", h.fleaflickerManagers)
	ff.GET("/roster/:rosterId", h.fleaflickerRoster)
	ff.GET("/free-agents", h.fleaflickerFreeAgents)

	api.GET("/values/fantasycalc", h.values)
	api.GET("/enriched-players", h.enrichedPlayers)
	api.GET("/enriched-players/sleeper/:id", h.enrichedPlayer)
	api.POST("/enriched-players/batch", h.enrichedBatch)

	r.NoRoute(func(c *gin.Context) {
		h.fail(c, &roster.NotFoundError{What: "route", ID: c.Request.URL.Path})
	})
	return r
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "directory_loaded": h.svc.DirectoryLoaded()})
}

func (h *Handler) sleeperLeague(c *gin.Context) {
	f, err := h.svc.SleeperLeague(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) sleeperManagers(c *gin.Context) {
	ms, err := h.svc.SleeperManagers(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

func (h *Handler) sleeperRoster(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	v, err := h.svc.SleeperRoster(c.Request.Context(), c.Param("leagueId"), c.Param("rosterId"), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) sleeperFreeAgents(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	v, err := h.svc.SleeperFreeAgents(c.Request.Context(), c.Param("leagueId"), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) fleaflickerLeague(c *gin.Context) {
	f, err := h.svc.FleaflickerLeague(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *Handler) fleaflickerManagers(c *gin.Context) {
	ms, err := h.svc.FleaflickerManagers(c.Request.Context(), c.Param("leagueId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ms)
}

func (h *Handler) fleaflickerRoster(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	v, err := h.svc.FleaflickerRoster(c.Request.Context(), c.Param("leagueId"), c.Param("rosterId"), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) fleaflickerFreeAgents(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	v, err := h.svc.FleaflickerFreeAgents(c.Request.Context(), c.Param("leagueId"), q)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) values(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	vals, err := h.svc.Values(c.Request.Context(), q.Override)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vals)
}

func (h *Handler) enrichedPlayers(c *gin.Context) {
	ps, err := h.svc.Players(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *Handler) enrichedPlayer(c *gin.Context) {
	p, err := h.svc.Player(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type batchRequest struct {
	SleeperIDs []players.Text `json:"sleeper_ids"`
}

func (h *Handler) enrichedBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid request body: 'sleeper_ids' array required")
		return
	}
	if req.SleeperIDs == nil {
		h.badRequest(c, "invalid request body: 'sleeper_ids' array required")
		return
	}
	ids := make([]string, 0, len(req.SleeperIDs))
	for _, id := range req.SleeperIDs {
		ids = append(ids, id.String())
	}
	recs, err := h.svc.AnalysisBatch(c.Request.Context(), ids)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}
