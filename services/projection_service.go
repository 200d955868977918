package services

import (
	"society-portal-api/models"

	"gorm.io/gorm"
)

// ProjectionService answers the dashboard read queries. It never mutates
// state; every result is recomputed from the item tables and the static
// catalog.
type ProjectionService struct {
	db *gorm.DB
}

func NewProjectionService(db *gorm.DB) *ProjectionService {
	return &ProjectionService{db: db}
}

// PendingSocieties lists societies currently waiting on the given role.
func (p *ProjectionService) PendingSocieties(role string) ([]models.Society, error) {
	statusIDs := OwnedStatusIDs(models.KindSociety, role)
	societies := []models.Society{}
	if len(statusIDs) == 0 {
		return societies, nil
	}
	err := p.db.Preload("Owner").
		Where("deleted_at IS NULL").
		Where("status_id IN ?", statusIDs).
		Order("updated_at DESC").
		Find(&societies).Error
	if err != nil {
		return nil, persistenceError("list pending societies", err)
	}
	return societies, nil
}

// PendingEventRequests lists event requests currently waiting on the given
// role.
func (p *ProjectionService) PendingEventRequests(role string) ([]models.EventRequest, error) {
	statusIDs := OwnedStatusIDs(models.KindEventRequest, role)
	requests := []models.EventRequest{}
	if len(statusIDs) == 0 {
		return requests, nil
	}
	err := p.db.Preload("Owner").Preload("Society").
		Where("deleted_at IS NULL").
		Where("status_id IN ?", statusIDs).
		Order("updated_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, persistenceError("list pending event requests", err)
	}
	return requests, nil
}

// ListSocieties returns societies filtered by an optional status.
func (p *ProjectionService) ListSocieties(statusID *int) ([]models.Society, error) {
	societies := []models.Society{}
	query := p.db.Preload("Owner").Where("deleted_at IS NULL")
	if statusID != nil {
		query = query.Where("status_id = ?", *statusID)
	}
	if err := query.Order("updated_at DESC").Find(&societies).Error; err != nil {
		return nil, persistenceError("list societies", err)
	}
	return societies, nil
}

// ListEventRequests returns event requests filtered by an optional status.
func (p *ProjectionService) ListEventRequests(statusID *int) ([]models.EventRequest, error) {
	requests := []models.EventRequest{}
	query := p.db.Preload("Owner").Preload("Society").Where("deleted_at IS NULL")
	if statusID != nil {
		query = query.Where("status_id = ?", *statusID)
	}
	if err := query.Order("updated_at DESC").Find(&requests).Error; err != nil {
		return nil, persistenceError("list event requests", err)
	}
	return requests, nil
}

type statusCountRow struct {
	StatusID int   `gorm:"column:status_id"`
	Total    int64 `gorm:"column:total"`
}

// CountsByStatus returns item counts per status for one entity kind, with
// zero entries for catalog statuses that have no items yet.
func (p *ProjectionService) CountsByStatus(kind string) (map[int]int64, error) {
	counts := make(map[int]int64, len(AllStatuses(kind)))
	for _, status := range AllStatuses(kind) {
		counts[status.StatusID] = 0
	}

	var rows []statusCountRow
	var err error
	switch kind {
	case models.KindSociety:
		err = p.db.Model(&models.Society{}).
			Select("status_id, COUNT(*) AS total").
			Where("deleted_at IS NULL").
			Group("status_id").
			Scan(&rows).Error
	case models.KindEventRequest:
		err = p.db.Model(&models.EventRequest{}).
			Select("status_id, COUNT(*) AS total").
			Where("deleted_at IS NULL").
			Group("status_id").
			Scan(&rows).Error
	default:
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, persistenceError("count items by status", err)
	}

	for _, row := range rows {
		counts[row.StatusID] = row.Total
	}
	return counts, nil
}
