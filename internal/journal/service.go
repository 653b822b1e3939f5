package journal

import (
	"errors"
	"fmt"

	"trading-journal-go/internal/export"
	"trading-journal-go/internal/models"
	"trading-journal-go/internal/stats"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a session or trade does not exist or is
// not owned by the requesting user.
var ErrNotFound = errors.New("record not found")

// Service owns session and trade persistence plus the derived-stats
// bookkeeping around it. All lookups are scoped by user id; there is no
// ambient current-user state.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new journal service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger.Named("journal")}
}

// GetSessions returns the user's sessions, most recent first.
func (s *Service) GetSessions(userID string) ([]models.TradingSession, error) {
	var sessions []models.TradingSession
	if err := s.db.Where("user_id = ?", userID).Order("created_at desc").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns one session owned by the user.
func (s *Service) GetSession(userID, sessionID string) (*models.TradingSession, error) {
	var session models.TradingSession
	err := s.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// CreateSession creates a named session with a fixed type and initial
// capital. CurrentCapital starts equal to InitialCapital.
func (s *Service) CreateSession(userID, name string, initialCapital float64, kind models.TradeKind) (*models.TradingSession, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown session type %q", kind)
	}
	session := models.TradingSession{
		UserID:         userID,
		Name:           name,
		SessionType:    kind,
		InitialCapital: initialCapital,
		CurrentCapital: initialCapital,
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.logger.Info("Session created",
		zap.String("session_id", session.ID),
		zap.String("type", string(kind)))
	return &session, nil
}

// UpdateSessionCapital persists a freshly derived current capital.
func (s *Service) UpdateSessionCapital(sessionID string, capital float64) error {
	res := s.db.Model(&models.TradingSession{}).Where("id = ?", sessionID).Update("current_capital", capital)
	if res.Error != nil {
		return fmt.Errorf("failed to update session capital: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes a session and all of its trades.
func (s *Service) DeleteSession(userID, sessionID string) error {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.db.Where("session_id = ?", session.ID).Delete(&models.Trade{}).Error; err != nil {
		return fmt.Errorf("failed to delete session trades: %w", err)
	}
	if err := s.db.Delete(session).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("Session deleted", zap.String("session_id", sessionID))
	return nil
}

// GetTrades returns a session's trades in insertion order.
func (s *Service) GetTrades(userID, sessionID string) ([]models.Trade, error) {
	if _, err := s.GetSession(userID, sessionID); err != nil {
		return nil, err
	}
	var trades []models.Trade
	if err := s.db.Where("session_id = ?", sessionID).Order("created_at asc, id asc").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	return trades, nil
}

// AddTrade records a new trade against one of the user's sessions. The
// trade kind defaults to the session type when unset; a crypto trade
// without an explicit profit/loss takes its realized PnL.
func (s *Service) AddTrade(userID string, trade *models.Trade) (*models.Trade, error) {
	session, err := s.GetSession(userID, trade.SessionID)
	if err != nil {
		return nil, err
	}
	if trade.Kind == "" {
		trade.Kind = session.SessionType
	}
	if !trade.Kind.Valid() {
		return nil, fmt.Errorf("unknown trade kind %q", trade.Kind)
	}
	if trade.Kind == models.TradeKindCrypto && trade.ProfitLoss == 0 {
		trade.ProfitLoss = trade.Crypto.RealizedPnl
	}
	if err := s.db.Create(trade).Error; err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	return trade, nil
}

// TradeUpdate carries a partial trade update. Nil fields are left
// untouched; a non-nil Forex or Crypto block replaces that field set
// wholesale.
type TradeUpdate struct {
	Margin     *float64             `json:"margin"`
	ROI        *float64             `json:"roi"`
	EntrySide  *string              `json:"entry_side"`
	ProfitLoss *float64             `json:"profit_loss"`
	Comments   *string              `json:"comments"`
	Forex      *models.ForexFields  `json:"forex"`
	Crypto     *models.CryptoFields `json:"crypto"`
}

// UpdateTrade applies a partial update to one of the user's trades.
func (s *Service) UpdateTrade(userID, tradeID string, update TradeUpdate) (*models.Trade, error) {
	trade, err := s.tradeForUser(userID, tradeID)
	if err != nil {
		return nil, err
	}

	if update.Margin != nil {
		trade.Margin = *update.Margin
	}
	if update.ROI != nil {
		trade.ROI = *update.ROI
	}
	if update.EntrySide != nil {
		trade.EntrySide = *update.EntrySide
	}
	if update.ProfitLoss != nil {
		trade.ProfitLoss = *update.ProfitLoss
	}
	if update.Comments != nil {
		trade.Comments = *update.Comments
	}
	if update.Forex != nil && trade.Kind == models.TradeKindForex {
		trade.Forex = *update.Forex
	}
	if update.Crypto != nil && trade.Kind == models.TradeKindCrypto {
		trade.Crypto = *update.Crypto
	}

	if err := s.db.Save(trade).Error; err != nil {
		return nil, fmt.Errorf("failed to update trade: %w", err)
	}
	return trade, nil
}

// DeleteTrade removes one of the user's trades.
func (s *Service) DeleteTrade(userID, tradeID string) error {
	trade, err := s.tradeForUser(userID, tradeID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(trade).Error; err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return nil
}

func (s *Service) tradeForUser(userID, tradeID string) (*models.Trade, error) {
	var trade models.Trade
	err := s.db.First(&trade, "id = ?", tradeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	if _, err := s.GetSession(userID, trade.SessionID); err != nil {
		return nil, err
	}
	return &trade, nil
}

// SessionStats recomputes the session's statistics from the full trade
// set. When the derived current capital differs from the persisted one,
// the new value is written back before returning (last writer wins; the
// aggregation itself is pure).
func (s *Service) SessionStats(userID, sessionID string) (*stats.SessionStats, error) {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	trades, err := s.GetTrades(userID, sessionID)
	if err != nil {
		return nil, err
	}

	st := stats.Compute(trades, session.InitialCapital)
	if st.CurrentCapital != session.CurrentCapital {
		if err := s.UpdateSessionCapital(sessionID, st.CurrentCapital); err != nil {
			// Stats are still valid; the write-back is opportunistic.
			s.logger.Error("Failed to persist derived session capital",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}
	return &st, nil
}

// ImportSession re-creates an exported session for the user. It always
// creates a brand-new session named "<name> (Imported)" and re-creates
// the trades one at a time in export order. The session type defaults
// to Forex because the export format does not carry it. The loop is not
// transactional: a mid-sequence failure leaves earlier trades in place,
// which is acceptable because trades are independently deletable.
func (s *Service) ImportSession(userID string, doc *export.Document) (*models.TradingSession, error) {
	session, err := s.CreateSession(userID, doc.Session.Name+" (Imported)", doc.Session.InitialCapital, models.TradeKindForex)
	if err != nil {
		return nil, err
	}

	for i, item := range doc.Trades {
		trade := models.Trade{
			SessionID:  session.ID,
			Kind:       session.SessionType,
			Margin:     item.Margin,
			ROI:        item.ROI,
			EntrySide:  item.EntrySide,
			ProfitLoss: item.ProfitLoss,
			Comments:   item.Comments,
		}
		if _, err := s.AddTrade(userID, &trade); err != nil {
			return nil, fmt.Errorf("failed to import trade %d of %d: %w", i+1, len(doc.Trades), err)
		}
	}

	s.logger.Info("Session imported",
		zap.String("session_id", session.ID),
		zap.Int("trades", len(doc.Trades)))
	return session, nil
}
