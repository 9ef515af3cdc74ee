package database

import (
	"gorm.io/gorm"

	"github.com/glefebvre/cinescout/internal/errors"
	"github.com/glefebvre/cinescout/internal/logger"
	"github.com/glefebvre/cinescout/internal/models"
)

// HistoryStore persists one record per completed search run.
type HistoryStore struct {
	db *gorm.DB
}

// NewHistoryStore creates a history store over a database handle.
func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// RecordSearch writes a search record. Persistence failures are logged
// and swallowed; history must never break a search.
func (s *HistoryStore) RecordSearch(rec *models.SearchRecord) {
	if err := s.db.Create(rec).Error; err != nil {
		logger.Default().WithFields(map[string]interface{}{
			"session_id": rec.SessionID,
			"error":      err.Error(),
		}).Warn("Failed to record search history")
	}
}

// Recent returns the latest search records, newest first.
func (s *HistoryStore) Recent(limit int) ([]models.SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []models.SearchRecord
	err := s.db.Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "failed to load search history")
	}
	return records, nil
}

// BySession returns the latest search records for one session.
func (s *HistoryStore) BySession(sessionID string, limit int) ([]models.SearchRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var records []models.SearchRecord
	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "failed to load search history")
	}
	return records, nil
}
