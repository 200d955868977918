package services

import (
	"errors"

	"society-portal-api/models"

	"gorm.io/gorm"
)

// HistoryLedger is the append-only store of every applied transition. The
// ordered record sequence per entity is the sole source of truth for its
// current status; the cached status_id on the item row is a projection of
// the last record.
type HistoryLedger struct {
	db *gorm.DB
}

func NewHistoryLedger(db *gorm.DB) *HistoryLedger {
	return &HistoryLedger{db: db}
}

// Append writes one record inside the caller's transaction. Records are
// never updated afterwards.
func (l *HistoryLedger) Append(tx *gorm.DB, record *models.StatusHistory) error {
	if err := tx.Create(record).Error; err != nil {
		return persistenceError("append history record", err)
	}
	return nil
}

// TimelineFor returns the full transition history of an entity, oldest
// first.
func (l *HistoryLedger) TimelineFor(kind string, entityID uint) ([]models.StatusHistory, error) {
	var records []models.StatusHistory
	err := l.db.
		Where("entity_kind = ? AND entity_id = ?", kind, entityID).
		Order("history_id ASC").
		Find(&records).Error
	if err != nil {
		return nil, persistenceError("load history timeline", err)
	}
	return records, nil
}

// LatestStatus recomputes the current status from the last ledger record.
// It must always equal the cached status_id on the item.
func (l *HistoryLedger) LatestStatus(kind string, entityID uint) (int, error) {
	var record models.StatusHistory
	err := l.db.
		Where("entity_kind = ? AND entity_id = ?", kind, entityID).
		Order("history_id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, persistenceError("load latest history record", err)
	}
	return record.ToStatusID, nil
}
