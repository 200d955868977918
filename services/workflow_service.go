package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"society-portal-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkflowService owns every mutation of reviewable items. Items are created
// by Submit and advanced by Transition; nothing else writes their status.
type WorkflowService struct {
	db     *gorm.DB
	ledger *HistoryLedger
}

func NewWorkflowService(db *gorm.DB) *WorkflowService {
	return &WorkflowService{db: db, ledger: NewHistoryLedger(db)}
}

// Ledger exposes the read side of the history store.
func (s *WorkflowService) Ledger() *HistoryLedger {
	return s.ledger
}

type SubmitSocietyInput struct {
	Name        string
	Description string
	AdvisorName *string
	LogoPath    *string
	OwnerID     int
	OwnerRole   string
}

type SubmitEventRequestInput struct {
	SocietyID   uint
	Title       string
	Description string
	Venue       *string
	StartsAt    *time.Time
	OwnerID     int
	OwnerRole   string
}

// TransitionInput carries one transition attempt. RequestToken is the
// client-supplied idempotency token; replaying the same token returns the
// original history record instead of appending a second one.
type TransitionInput struct {
	Kind         string
	EntityID     uint
	ActorID      int
	ActorRole    string
	ToStatusID   int
	Remarks      *string
	RequestToken string
}

// itemRef is the engine's kind-neutral view of a locked item row.
type itemRef struct {
	id       uint
	ownerID  int
	statusID int
	number   string
}

// SubmitSociety creates a society registration in the initial pending status
// together with its first ledger record, atomically.
func (s *WorkflowService) SubmitSociety(in SubmitSocietyInput) (*models.Society, error) {
	now := time.Now()
	society := models.Society{
		SocietyNumber: generateEntityNumber("SOC"),
		SocietyName:   in.Name,
		Description:   in.Description,
		AdvisorName:   in.AdvisorName,
		LogoPath:      in.LogoPath,
		OwnerID:       in.OwnerID,
		StatusID:      models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.runSubmit(func(tx *gorm.DB) (uint, error) {
		if err := tx.Create(&society).Error; err != nil {
			return 0, persistenceError("create society", err)
		}
		return society.SocietyID, nil
	}, models.KindSociety, in.OwnerID, in.OwnerRole, now)
	if err != nil {
		return nil, err
	}
	return &society, nil
}

// SubmitEventRequest creates an event request in the initial pending status
// together with its first ledger record, atomically.
func (s *WorkflowService) SubmitEventRequest(in SubmitEventRequestInput) (*models.EventRequest, error) {
	now := time.Now()
	request := models.EventRequest{
		RequestNumber: generateEntityNumber("EVT"),
		SocietyID:     in.SocietyID,
		EventTitle:    in.Title,
		Description:   in.Description,
		Venue:         in.Venue,
		StartsAt:      in.StartsAt,
		OwnerID:       in.OwnerID,
		StatusID:      models.StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.runSubmit(func(tx *gorm.DB) (uint, error) {
		if err := tx.Create(&request).Error; err != nil {
			return 0, persistenceError("create event request", err)
		}
		return request.EventRequestID, nil
	}, models.KindEventRequest, in.OwnerID, in.OwnerRole, now)
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *WorkflowService) runSubmit(create func(tx *gorm.DB) (uint, error), kind string, ownerID int, ownerRole string, now time.Time) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return persistenceError("begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	entityID, err := create(tx)
	if err != nil {
		tx.Rollback()
		return err
	}

	record := models.StatusHistory{
		EntityKind: kind,
		EntityID:   entityID,
		ToStatusID: models.StatusPending,
		ActorID:    ownerID,
		ActorRole:  ownerRole,
		ChangedAt:  now,
	}
	if err := s.ledger.Append(tx, &record); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return persistenceError("commit submission", err)
	}
	return nil
}

// Transition applies one validated transition as a single atomic
// read-modify-write: replay check, authorization, ledger append, then a
// compare-and-swap on the cached status. A lost race surfaces as
// storage_conflict; denials are returned verbatim, never downgraded to a
// no-op.
func (s *WorkflowService) Transition(in TransitionInput) (*models.StatusHistory, error) {
	if in.RequestToken == "" {
		// Direct internal callers may omit the token; replay protection
		// then only covers HTTP clients, which must supply one.
		in.RequestToken = uuid.NewString()
	}

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, persistenceError("begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if record, done, err := s.replayedRecord(tx, in); done {
		tx.Rollback()
		return record, err
	}

	item, err := s.loadItem(tx, in.Kind, in.EntityID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := Authorize(in.Kind, item.statusID, in.ActorRole, in.ToStatusID); err != nil {
		tx.Rollback()
		return nil, err
	}

	now := time.Now()
	from := item.statusID
	record := models.StatusHistory{
		EntityKind:   in.Kind,
		EntityID:     item.id,
		FromStatusID: &from,
		ToStatusID:   in.ToStatusID,
		ActorID:      in.ActorID,
		ActorRole:    in.ActorRole,
		Remarks:      in.Remarks,
		IsOverride:   IsOverride(in.Kind, item.statusID, in.ActorRole),
		ChangedAt:    now,
	}
	if err := s.ledger.Append(tx, &record); err != nil {
		tx.Rollback()
		return nil, err
	}

	// Optimistic guard: the update only lands if the status is still the one
	// we authorized against. Zero rows means a concurrent reviewer won.
	updated, err := s.casStatus(tx, in.Kind, item.id, from, in.ToStatusID, in.Remarks, now)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !updated {
		tx.Rollback()
		return nil, ErrStorageConflict
	}

	key := models.IdempotencyKey{
		Token:      in.RequestToken,
		EntityKind: in.Kind,
		EntityID:   item.id,
		ActorID:    in.ActorID,
		ToStatusID: in.ToStatusID,
		HistoryID:  record.HistoryID,
		CreatedAt:  now,
	}
	if err := tx.Create(&key).Error; err != nil {
		tx.Rollback()
		return nil, persistenceError("consume idempotency token", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError("commit transition", err)
	}

	// Post-commit side effects must never block or fail the transition.
	enqueueTransitionNotification(transitionEvent{
		Kind:       in.Kind,
		EntityID:   item.id,
		Number:     item.number,
		OwnerID:    item.ownerID,
		ToStatusID: in.ToStatusID,
		ActorRole:  in.ActorRole,
		Override:   record.IsOverride,
	})

	return &record, nil
}

// replayedRecord answers a retried transition from its consumed token. done
// is true when the caller should stop, either with the original record or
// with an error for a token reused on a different request.
func (s *WorkflowService) replayedRecord(tx *gorm.DB, in TransitionInput) (*models.StatusHistory, bool, error) {
	var key models.IdempotencyKey
	err := tx.Where("token = ?", in.RequestToken).Take(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, true, persistenceError("check idempotency token", err)
	}

	if key.EntityKind != in.Kind || key.EntityID != in.EntityID ||
		key.ActorID != in.ActorID || key.ToStatusID != in.ToStatusID {
		return nil, true, ErrStorageConflict
	}

	var record models.StatusHistory
	if err := tx.Where("history_id = ?", key.HistoryID).Take(&record).Error; err != nil {
		return nil, true, persistenceError("load replayed history record", err)
	}
	return &record, true, nil
}

func (s *WorkflowService) loadItem(tx *gorm.DB, kind string, entityID uint) (*itemRef, error) {
	switch kind {
	case models.KindSociety:
		var row models.Society
		err := tx.Where("society_id = ? AND deleted_at IS NULL", entityID).Take(&row).Error
		if err != nil {
			return nil, itemLoadError(err)
		}
		return &itemRef{id: row.SocietyID, ownerID: row.OwnerID, statusID: row.StatusID, number: row.SocietyNumber}, nil
	case models.KindEventRequest:
		var row models.EventRequest
		err := tx.Where("event_request_id = ? AND deleted_at IS NULL", entityID).Take(&row).Error
		if err != nil {
			return nil, itemLoadError(err)
		}
		return &itemRef{id: row.EventRequestID, ownerID: row.OwnerID, statusID: row.StatusID, number: row.RequestNumber}, nil
	default:
		return nil, ErrNotFound
	}
}

func itemLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return persistenceError("load item", err)
}

func (s *WorkflowService) casStatus(tx *gorm.DB, kind string, entityID uint, fromStatusID, toStatusID int, remarks *string, now time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status_id":  toStatusID,
		"note":       remarks,
		"updated_at": now,
	}

	var res *gorm.DB
	switch kind {
	case models.KindSociety:
		res = tx.Model(&models.Society{}).
			Where("society_id = ? AND status_id = ?", entityID, fromStatusID).
			Updates(updates)
	case models.KindEventRequest:
		res = tx.Model(&models.EventRequest{}).
			Where("event_request_id = ? AND status_id = ?", entityID, fromStatusID).
			Updates(updates)
	default:
		return false, ErrNotFound
	}

	if res.Error != nil {
		return false, persistenceError("update item status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Purge hard-deletes an item together with its history and consumed tokens.
// It is the rare administrative escape hatch; the cascade is recorded in the
// audit log, outside the ledger it deletes.
func (s *WorkflowService) Purge(kind string, entityID uint, actorID int, reason *string, ipAddress string) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return persistenceError("begin transaction", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	item, err := s.loadItem(tx, kind, entityID)
	if err != nil {
		tx.Rollback()
		return err
	}

	switch kind {
	case models.KindSociety:
		err = tx.Where("society_id = ?", item.id).Delete(&models.Society{}).Error
	case models.KindEventRequest:
		err = tx.Where("event_request_id = ?", item.id).Delete(&models.EventRequest{}).Error
	}
	if err != nil {
		tx.Rollback()
		return persistenceError("delete item", err)
	}

	if err := tx.Where("entity_kind = ? AND entity_id = ?", kind, item.id).
		Delete(&models.StatusHistory{}).Error; err != nil {
		tx.Rollback()
		return persistenceError("delete history records", err)
	}
	if err := tx.Where("entity_kind = ? AND entity_id = ?", kind, item.id).
		Delete(&models.IdempotencyKey{}).Error; err != nil {
		tx.Rollback()
		return persistenceError("delete idempotency keys", err)
	}

	entityID = item.id
	description := fmt.Sprintf("Purged %s %s with full history", kind, item.number)
	if reason != nil && *reason != "" {
		description = fmt.Sprintf("%s: %s", description, *reason)
	}
	audit := models.AuditLog{
		UserID:      actorID,
		Action:      "purge",
		EntityKind:  kind,
		EntityID:    &entityID,
		Description: &description,
		IPAddress:   ipAddress,
		CreatedAt:   time.Now(),
	}
	if err := tx.Create(&audit).Error; err != nil {
		tx.Rollback()
		return persistenceError("write audit log", err)
	}

	if err := tx.Commit().Error; err != nil {
		return persistenceError("commit purge", err)
	}
	return nil
}

func generateEntityNumber(prefix string) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), token[:8])
}
