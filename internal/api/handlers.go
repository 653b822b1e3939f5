package api

import (
	"errors"
	"net/http"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/insights"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the journal routes: sessions, trades, stats,
// export/import and AI summaries.
type Handler struct {
	journal   *journal.Service
	summaries insights.ClientInterface
	logger    *zap.Logger
}

// NewHandler creates a new Handler. summaries may be nil when the
// insights client is disabled by configuration.
func NewHandler(journalService *journal.Service, summaries insights.ClientInterface, logger *zap.Logger) *Handler {
	return &Handler{journal: journalService, summaries: summaries, logger: logger.Named("api")}
}

// respondError maps service errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, journal.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

type CreateSessionRequest struct {
	Name           string  `json:"name" binding:"required"`
	InitialCapital float64 `json:"initial_capital" binding:"min=0"`
	SessionType    string  `json:"session_type" binding:"required,oneof=Forex Crypto"`
}

// GET /api/v1/sessions
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.journal.GetSessions(auth.GetUserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// POST /api/v1/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.journal.CreateSession(auth.GetUserID(c), req.Name, req.InitialCapital, models.TradeKind(req.SessionType))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// DELETE /api/v1/sessions/:id
//
// Deleting a session destroys all of its trades, so the UI walks the
// user through three confirmations; the API requires the session name
// to be echoed back in the confirm query parameter.
func (h *Handler) DeleteSession(c *gin.Context) {
	userID := auth.GetUserID(c)
	session, err := h.journal.GetSession(userID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	if c.Query("confirm") != session.Name {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "confirmation required: pass the session name in the confirm query parameter",
		})
		return
	}

	if err := h.journal.DeleteSession(userID, session.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

// GET /api/v1/sessions/:id/stats
func (h *Handler) SessionStats(c *gin.Context) {
	st, err := h.journal.SessionStats(auth.GetUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type AddTradeRequest struct {
	Kind       string               `json:"kind" binding:"omitempty,oneof=Forex Crypto"`
	Margin     float64              `json:"margin"`
	ROI        float64              `json:"roi"`
	EntrySide  string               `json:"entry_side"`
	ProfitLoss float64              `json:"profit_loss"`
	Comments   string               `json:"comments"`
	Forex      *models.ForexFields  `json:"forex"`
	Crypto     *models.CryptoFields `json:"crypto"`
}

// GET /api/v1/sessions/:id/trades
func (h *Handler) ListTrades(c *gin.Context) {
	trades, err := h.journal.GetTrades(auth.GetUserID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trades)
}

// POST /api/v1/sessions/:id/trades
func (h *Handler) AddTrade(c *gin.Context) {
	var req AddTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade := models.Trade{
		SessionID:  c.Param("id"),
		Kind:       models.TradeKind(req.Kind),
		Margin:     req.Margin,
		ROI:        req.ROI,
		EntrySide:  req.EntrySide,
		ProfitLoss: req.ProfitLoss,
		Comments:   req.Comments,
	}
	if req.Forex != nil {
		trade.Forex = *req.Forex
	}
	if req.Crypto != nil {
		trade.Crypto = *req.Crypto
	}

	created, err := h.journal.AddTrade(auth.GetUserID(c), &trade)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PATCH /api/v1/trades/:id
func (h *Handler) UpdateTrade(c *gin.Context) {
	var update journal.TradeUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.journal.UpdateTrade(auth.GetUserID(c), c.Param("id"), update)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trade)
}

// DELETE /api/v1/trades/:id
func (h *Handler) DeleteTrade(c *gin.Context) {
	if err := h.journal.DeleteTrade(auth.GetUserID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "trade deleted"})
}

// GET /api/v1/sessions/:id/summary
func (h *Handler) SessionSummary(c *gin.Context) {
	if h.summaries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session summaries are not configured"})
		return
	}

	userID := auth.GetUserID(c)
	sessionID := c.Param("id")
	session, err := h.journal.GetSession(userID, sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	trades, err := h.journal.GetTrades(userID, sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	st, err := h.journal.SessionStats(userID, sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	summary, err := h.summaries.SummarizeSession(c.Request.Context(), *session, *st, trades)
	if err != nil {
		h.logger.Error("Summary generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to generate summary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
