package services

import (
	"encoding/json"
	"log"
	"sync"

	"backend/entity"
	"backend/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationService owns the durable notification feed. Every row is
// appended as the side effect of a committed state change; subscribers
// (the websocket hub bridge) are invoked after the append, so the live
// push can never report something the feed does not know about.
type NotificationService struct {
	DB   *gorm.DB
	Repo *repository.NotificationRepository

	mu     sync.Mutex
	subs   map[int]func(entity.Notification)
	nextID int
}

func NewNotificationService(db *gorm.DB, repo *repository.NotificationRepository) *NotificationService {
	return &NotificationService{
		DB:   db,
		Repo: repo,
		subs: make(map[int]func(entity.Notification)),
	}
}

// OnNotification registers a handler for every appended notification and
// returns its unsubscribe function.
func (s *NotificationService) OnNotification(h func(entity.Notification)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = h
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Create appends a row and fans it out. details becomes the event payload
// verbatim, so the feed doubles as the replayable record of what was
// pushed. targetRole nil means every staff role.
func (s *NotificationService) Create(t entity.EventType, message string, details any, targetRole *entity.Role) (*entity.Notification, error) {
	raw, err := json.Marshal(details)
	if err != nil {
		return nil, err
	}

	n := entity.Notification{
		Type:       t,
		Message:    message,
		Details:    datatypes.JSON(raw),
		TargetRole: targetRole,
	}
	if err := s.Repo.Create(&n); err != nil {
		return nil, err
	}

	s.mu.Lock()
	handlers := make([]func(entity.Notification), 0, len(s.subs))
	for _, h := range s.subs {
		handlers = append(handlers, h)
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(n)
	}
	return &n, nil
}

// Emit is Create for callers that have nothing useful to do with the
// error: the state change already committed, so a failed append is
// logged, never propagated.
func (s *NotificationService) Emit(t entity.EventType, message string, details any, targetRole *entity.Role) {
	if _, err := s.Create(t, message, details, targetRole); err != nil {
		log.Printf("notification append failed: %v", err)
	}
}

func (s *NotificationService) ListForRole(role entity.Role, limit int) ([]entity.Notification, error) {
	return s.Repo.ListForRole(role, limit)
}

func (s *NotificationService) MarkRead(ids []uint) error {
	if len(ids) == 0 {
		return &ValidationError{Msg: "notification ids are required"}
	}
	return s.Repo.MarkRead(ids)
}
