package services

import (
	"errors"
	"fmt"

	"backend/entity"
	"backend/repository"
	"backend/ws"

	"gorm.io/gorm"
)

// TableService keeps table status in sync with the order lifecycle.
// Occupancy is derived state: the order state machine calls
// OnOrderActivated/OnOrderClosed inside its transactions; the only
// independent status is the admin-set `reserved`, which is sticky.
type TableService struct {
	DB        *gorm.DB
	Repo      *repository.TableRepository
	OrderRepo *repository.OrderRepository
	Notif     *NotificationService
}

func NewTableService(db *gorm.DB, repo *repository.TableRepository, orderRepo *repository.OrderRepository, notif *NotificationService) *TableService {
	return &TableService{DB: db, Repo: repo, OrderRepo: orderRepo, Notif: notif}
}

// OnOrderActivated marks the table occupied. Called by the order state
// machine only, inside its creation transaction.
func (s *TableService) OnOrderActivated(tx *gorm.DB, tableID uint) error {
	return s.Repo.SetStatus(tx, tableID, entity.TableOccupied)
}

// OnOrderClosed frees the table when an order reaches a terminal state,
// unless an admin has reserved it. Reports whether the status changed so
// the caller can emit the table event after its transaction commits.
func (s *TableService) OnOrderClosed(tx *gorm.DB, tableID uint) (freed bool, err error) {
	t, err := s.Repo.Get(tx, tableID)
	if err != nil {
		return false, err
	}
	if t.Status == entity.TableReserved {
		return false, nil
	}
	if err := s.Repo.SetStatus(tx, tableID, entity.TableAvailable); err != nil {
		return false, err
	}
	return true, nil
}

// ---------------- admin / read surface ----------------

func (s *TableService) List() ([]entity.Table, error) {
	return s.Repo.List()
}

func (s *TableService) Get(id uint) (*entity.Table, error) {
	t, err := s.Repo.Get(s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "table", ID: id}
	}
	return t, err
}

func (s *TableService) GetByNumber(number int) (*entity.Table, error) {
	t, err := s.Repo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, &NotFoundError{Resource: "table", ID: uint(number)}
	}
	return t, nil
}

func (s *TableService) Create(number, seats int) (*entity.Table, error) {
	if number <= 0 || seats <= 0 {
		return nil, &ValidationError{Msg: "table number and seats must be positive"}
	}
	existing, err := s.Repo.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ConflictError{Msg: fmt.Sprintf("table %d already exists", number)}
	}
	t := entity.Table{Number: number, Seats: seats, Status: entity.TableAvailable}
	if err := s.Repo.Create(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TableService) Update(id uint, seats *int) (*entity.Table, error) {
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if seats != nil {
		if *seats <= 0 {
			return nil, &ValidationError{Msg: "seats must be positive"}
		}
		if err := s.Repo.Update(id, map[string]any{"seats": *seats}); err != nil {
			return nil, err
		}
		t.Seats = *seats
	}
	return t, nil
}

// Delete refuses while an active order holds the table.
func (s *TableService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	active, err := s.OrderRepo.ActiveOrderForTable(s.DB, id)
	if err != nil {
		return err
	}
	if active != nil {
		return &ConflictError{Msg: "table has an active order", ExistingOrderID: active.ID}
	}
	return s.Repo.Delete(id)
}

// SetStatus is the manual override (reserve a table, clear a
// reservation). Setting `reserved` sticks until this is called again.
func (s *TableService) SetStatus(id uint, status entity.TableStatus) (*entity.Table, error) {
	if !status.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown table status %q", status)}
	}
	t, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetStatus(s.DB, id, status); err != nil {
		return nil, err
	}
	t.Status = status

	s.Notif.Emit(entity.EventTableStatusChange,
		fmt.Sprintf("Table %d is now %s", t.Number, status),
		ws.TableStatusPayload{TableID: t.ID, TableNumber: t.Number, Status: status},
		nil)
	return t, nil
}
