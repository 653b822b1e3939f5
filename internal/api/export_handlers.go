package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/export"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// loadSessionBundle gathers everything an export needs: the session,
// its trades in insertion order, and freshly computed statistics.
func (h *Handler) loadSessionBundle(c *gin.Context) (*models.TradingSession, []models.Trade, *stats.SessionStats, bool) {
	userID := auth.GetUserID(c)
	sessionID := c.Param("id")

	session, err := h.journal.GetSession(userID, sessionID)
	if err != nil {
		h.respondError(c, err)
		return nil, nil, nil, false
	}
	trades, err := h.journal.GetTrades(userID, sessionID)
	if err != nil {
		h.respondError(c, err)
		return nil, nil, nil, false
	}
	st, err := h.journal.SessionStats(userID, sessionID)
	if err != nil {
		h.respondError(c, err)
		return nil, nil, nil, false
	}
	return session, trades, st, true
}

func attachmentHeader(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

// GET /api/v1/sessions/:id/export/json
func (h *Handler) ExportJSON(c *gin.Context) {
	session, trades, st, ok := h.loadSessionBundle(c)
	if !ok {
		return
	}

	data, err := export.ToJSON(*session, trades, *st)
	if err != nil {
		h.respondError(c, err)
		return
	}

	attachmentHeader(c, export.JSONFilename(session.Name))
	c.Data(http.StatusOK, "application/json", data)
}

// GET /api/v1/sessions/:id/export/excel
func (h *Handler) ExportWorkbook(c *gin.Context) {
	session, trades, st, ok := h.loadSessionBundle(c)
	if !ok {
		return
	}

	f, err := export.Workbook(*session, trades, *st)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	attachmentHeader(c, export.WorkbookFilename(session.Name))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to write workbook response", zap.Error(err))
	}
}

// GET /api/v1/sessions/:id/export/trades
func (h *Handler) ExportTrades(c *gin.Context) {
	session, trades, _, ok := h.loadSessionBundle(c)
	if !ok {
		return
	}

	f, err := export.TradesWorkbook(*session, trades)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	attachmentHeader(c, export.TradesFilename(session.Name))
	c.Header("Content-Type", xlsxContentType)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to write workbook response", zap.Error(err))
	}
}

// POST /api/v1/sessions/import
//
// Accepts a previously exported JSON document as a multipart file and
// re-creates it as a brand-new session. A read failure or a malformed
// file is reported to the caller; a mid-sequence trade failure leaves
// the already-imported trades in place.
func (h *Handler) ImportSession(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing import file"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	doc, err := export.FromJSON(data)
	if err != nil {
		if errors.Is(err, export.ErrInvalidJSON) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err)
		return
	}

	session, err := h.journal.ImportSession(auth.GetUserID(c), doc)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}
