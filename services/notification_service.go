package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"society-portal-api/config"
	"society-portal-api/models"

	"gorm.io/gorm"
)

// transitionEvent is the payload queued after a committed transition.
type transitionEvent struct {
	Kind       string
	EntityID   uint
	Number     string
	OwnerID    int
	ToStatusID int
	ActorRole  string
	Override   bool
}

// NotificationWorker drains transition events in the background, writing a
// notification row for the item owner and sending a best-effort email.
// Enqueueing never blocks: if the queue is full the event is dropped and
// logged, the transition itself has already committed.
type NotificationWorker struct {
	db    *gorm.DB
	queue chan transitionEvent
	done  chan struct{}
	wg    sync.WaitGroup
}

var (
	defaultWorkerMu sync.RWMutex
	defaultWorker   *NotificationWorker
)

// StartNotificationWorker launches the package-level worker used by the
// workflow engine. Safe to call once at startup.
func StartNotificationWorker(db *gorm.DB) *NotificationWorker {
	w := &NotificationWorker{
		db:    db,
		queue: make(chan transitionEvent, 256),
		done:  make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()

	defaultWorkerMu.Lock()
	defaultWorker = w
	defaultWorkerMu.Unlock()
	return w
}

// Stop drains the queue and waits for the worker to exit.
func (w *NotificationWorker) Stop() {
	close(w.done)
	w.wg.Wait()

	defaultWorkerMu.Lock()
	if defaultWorker == w {
		defaultWorker = nil
	}
	defaultWorkerMu.Unlock()
}

func enqueueTransitionNotification(event transitionEvent) {
	defaultWorkerMu.RLock()
	w := defaultWorker
	defaultWorkerMu.RUnlock()
	if w == nil {
		return
	}

	select {
	case w.queue <- event:
	default:
		log.Printf("notification queue full, dropping event for %s %d", event.Kind, event.EntityID)
	}
}

func (w *NotificationWorker) run() {
	defer w.wg.Done()
	for {
		select {
		case event := <-w.queue:
			w.handle(event)
		case <-w.done:
			for {
				select {
				case event := <-w.queue:
					w.handle(event)
				default:
					return
				}
			}
		}
	}
}

func (w *NotificationWorker) handle(event transitionEvent) {
	status, err := GetWorkflowStatus(event.Kind, event.ToStatusID)
	if err != nil {
		log.Printf("notification for unknown status %d on %s: %v", event.ToStatusID, event.Kind, err)
		return
	}

	title := fmt.Sprintf("Request %s moved to %s", event.Number, status.StatusName)
	message := fmt.Sprintf("Your %s request %s is now %q.", kindLabel(event.Kind), event.Number, status.Description)
	if event.Override {
		message += " This change was applied by an administrator."
	}

	notification := models.Notification{
		UserID:     event.OwnerID,
		Title:      title,
		Message:    message,
		Type:       notificationType(status),
		EntityKind: &event.Kind,
		EntityID:   &event.EntityID,
		CreateAt:   time.Now(),
	}
	if err := w.db.Create(&notification).Error; err != nil {
		log.Printf("failed to store notification for user %d: %v", event.OwnerID, err)
		return
	}

	var owner models.User
	if err := w.db.Where("user_id = ? AND delete_at IS NULL", event.OwnerID).First(&owner).Error; err != nil {
		return
	}
	if err := config.SendMail([]string{owner.Email}, title, "<p>"+message+"</p>"); err != nil {
		log.Printf("failed to send notification mail to %s: %v", owner.Email, err)
	}
}

func kindLabel(kind string) string {
	if kind == models.KindEventRequest {
		return "event"
	}
	return "society registration"
}

func notificationType(status models.WorkflowStatus) string {
	if status.Terminal() {
		if status.StatusID == models.StatusVCApproved || status.StatusID == models.StatusReportSubmitted {
			return "success"
		}
		return "error"
	}
	return "info"
}
