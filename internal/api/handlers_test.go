package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"trading-journal-go/internal/auth"
	"trading-journal-go/internal/config"
	"trading-journal-go/internal/database"
	"trading-journal-go/internal/journal"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	log := zap.NewNop()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authService := auth.NewService(db, auth.NewPasswordManager(4), jwtManager, log)
	journalService := journal.NewService(db, log)

	cfg := &config.Config{}
	return NewRouter(cfg, log, authService, jwtManager, journalService, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "a strong password",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthRequired(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/sessions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionAndTradeFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "trader_1")

	// Create a session.
	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", token, CreateSessionRequest{
		Name:           "London Scalps",
		InitialCapital: 5000,
		SessionType:    "Forex",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session models.TradingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	// Log two trades.
	for _, trade := range []AddTradeRequest{
		{Margin: 1000, ROI: 10, ProfitLoss: 100, EntrySide: "Buy"},
		{Margin: 800, ROI: -5, ProfitLoss: -40, EntrySide: "Sell"},
	} {
		w = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+session.ID+"/trades", token, trade)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// Stats reflect both trades.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+session.ID+"/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var st stats.SessionStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 2, st.TotalTrades)
	assert.InDelta(t, 5060.0, st.CurrentCapital, 1e-9)

	// Another user cannot see the session.
	otherToken := registerUser(t, router, "trader_2")
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+session.ID+"/trades", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSessionRequiresConfirmation(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "trader_1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", token, CreateSessionRequest{
		Name: "Doomed", InitialCapital: 100, SessionType: "Crypto",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var session models.TradingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	// Missing or wrong confirmation is rejected.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+session.ID, token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+session.ID+"?confirm=Wrong", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/sessions/"+session.ID+"?confirm="+url.QueryEscape("Doomed"), token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+session.ID+"/stats", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportImportRoundTrip(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "trader_1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", token, CreateSessionRequest{
		Name: "Perp Diary", InitialCapital: 3000, SessionType: "Crypto",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var session models.TradingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	for i := 0; i < 3; i++ {
		w = doJSON(t, router, http.MethodPost, "/api/v1/sessions/"+session.ID+"/trades", token, AddTradeRequest{
			Margin: 100, ROI: float64(i), ProfitLoss: float64(10 * (i + 1)),
			Comments: fmt.Sprintf("trade %d", i+1),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// Export the session as JSON.
	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+session.ID+"/export/json", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Perp_Diary_trading_session.json")
	exported := w.Body.Bytes()

	// Import it back as a new session.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "export.json")
	require.NoError(t, err)
	_, err = part.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var imported models.TradingSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	assert.Equal(t, "Perp Diary (Imported)", imported.Name)
	assert.NotEqual(t, session.ID, imported.ID)
	// Imported sessions always come back as Forex.
	assert.Equal(t, models.TradeKindForex, imported.SessionType)

	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+imported.ID+"/trades", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var trades []models.Trade
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trades))
	require.Len(t, trades, 3)
	for i, trade := range trades {
		assert.Equal(t, fmt.Sprintf("trade %d", i+1), trade.Comments)
	}
}

func TestImportRejectsMalformedFile(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "trader_1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "broken.json")
	require.NoError(t, err)
	_, err = part.Write([]byte("{not valid json"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryUnavailableWhenDisabled(t *testing.T) {
	router := newTestRouter(t)
	token := registerUser(t, router, "trader_1")

	w := doJSON(t, router, http.MethodPost, "/api/v1/sessions", token, CreateSessionRequest{
		Name: "Quiet", InitialCapital: 100, SessionType: "Forex",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var session models.TradingSession
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))

	w = doJSON(t, router, http.MethodGet, "/api/v1/sessions/"+session.ID+"/summary", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
