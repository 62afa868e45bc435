package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"backend/entity"
	"backend/repository"
	"backend/ws"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService is the only writer of order state. Per-order mutations are
// serialized through transactions plus the status CAS guard, so the
// single-active-order-per-table and valid-transition invariants hold
// under concurrent staff actions.
type OrderService struct {
	DB        *gorm.DB
	Repo      *repository.OrderRepository
	MenuRepo  *repository.MenuRepository
	TableRepo *repository.TableRepository
	Tables    *TableService
	Notif     *NotificationService
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	menuRepo *repository.MenuRepository,
	tableRepo *repository.TableRepository,
	tables *TableService,
	notif *NotificationService,
) *OrderService {
	return &OrderService{DB: db, Repo: repo, MenuRepo: menuRepo, TableRepo: tableRepo, Tables: tables, Notif: notif}
}

// ----- DTOs from Controller -----

type OrderItemIn struct {
	MenuItemID          uint   `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	SpecialInstructions string `json:"specialInstructions"`
}

type CreateOrderReq struct {
	TableID             uint          `json:"tableId" binding:"required"`
	Items               []OrderItemIn `json:"items" binding:"required,min=1"`
	SpecialInstructions string        `json:"specialInstructions"`
	GuestName           string        `json:"guestName"`
	GuestSessionID      string        `json:"guestSessionId"`
}

// ----- Create -----

// Create opens a new order in `pending` and occupies the table. A table
// with an active order is a conflict that carries the existing order's
// id. Items whose menu entry is missing or unavailable are skipped, not
// fatal: an item going unavailable between browse and submit must not
// abort the whole order.
func (s *OrderService) Create(req *CreateOrderReq) (*entity.Order, error) {
	if len(req.Items) == 0 {
		return nil, &ValidationError{Msg: "at least one item is required"}
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Msg: "item quantity must be positive"}
		}
	}

	sessionID := req.GuestSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var (
		order       entity.Order
		tableNumber int
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		table, err := s.TableRepo.Get(tx, req.TableID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "table", ID: req.TableID}
		}
		if err != nil {
			return err
		}
		tableNumber = table.Number

		active, err := s.Repo.ActiveOrderForTable(tx, req.TableID)
		if err != nil {
			return err
		}
		if active != nil {
			return &ConflictError{
				Msg:             "there is already an active order for this table",
				ExistingOrderID: active.ID,
			}
		}

		order = entity.Order{
			Status:              entity.OrderPending,
			TableID:             req.TableID,
			PaymentStatus:       entity.PaymentUnpaid,
			SpecialInstructions: req.SpecialInstructions,
			GuestName:           req.GuestName,
			GuestSessionID:      sessionID,
		}
		if err := s.Repo.CreateOrder(tx, &order); err != nil {
			return err
		}

		// merge duplicate lines in the request before inserting; the
		// (order_id, menu_item_id) pair is unique
		merged := make(map[uint]OrderItemIn)
		seq := make([]uint, 0, len(req.Items))
		for _, it := range req.Items {
			if m, ok := merged[it.MenuItemID]; ok {
				m.Quantity += it.Quantity
				merged[it.MenuItemID] = m
				continue
			}
			merged[it.MenuItemID] = it
			seq = append(seq, it.MenuItemID)
		}

		var total int64
		for _, id := range seq {
			it := merged[id]
			menuItem, err := s.MenuRepo.GetItem(tx, it.MenuItemID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("order create: menu item %d not found, skipping", it.MenuItemID)
				continue
			}
			if err != nil {
				return err
			}
			if !menuItem.IsAvailable {
				log.Printf("order create: menu item %q unavailable, skipping", menuItem.Name)
				continue
			}

			oi := entity.OrderItem{
				OrderID:             order.ID,
				MenuItemID:          menuItem.ID,
				Quantity:            it.Quantity,
				Price:               menuItem.Price, // snapshot
				SpecialInstructions: it.SpecialInstructions,
				Status:              entity.OrderPending,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
			total += menuItem.Price * int64(it.Quantity)
		}

		if err := s.Repo.UpdateOrder(tx, order.ID, map[string]any{"total_amount": total}); err != nil {
			return err
		}
		order.TotalAmount = total

		return s.Tables.OnOrderActivated(tx, req.TableID)
	})
	if err != nil {
		return nil, err
	}

	waiter := entity.RoleWaiter
	s.Notif.Emit(entity.EventNewOrder,
		fmt.Sprintf("New order #%d for table %d", order.ID, tableNumber),
		ws.NewOrderPayload{OrderID: order.ID, TableNumber: tableNumber},
		&waiter)

	return s.Repo.GetOrderDetail(order.ID)
}

// ----- AddItems -----

// AddItems merges items into an open order. An item already on the order
// gains quantity at its original snapshot price; a new item is
// snapshotted at the current menu price. The total is always recomputed
// from the stored snapshots.
func (s *OrderService) AddItems(orderID uint, items []OrderItemIn) (*entity.Order, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Msg: "at least one item is required"}
	}
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, &ValidationError{Msg: "item quantity must be positive"}
		}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.GetOrder(tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "order", ID: orderID}
		}
		if err != nil {
			return err
		}

		switch order.Status {
		case entity.OrderPending, entity.OrderPlaced, entity.OrderPreparing:
		default:
			return &InvalidStateError{Action: "add items", Status: order.Status}
		}

		for _, it := range items {
			menuItem, err := s.MenuRepo.GetItem(tx, it.MenuItemID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("order %d: menu item %d not found, skipping", orderID, it.MenuItemID)
				continue
			}
			if err != nil {
				return err
			}
			if !menuItem.IsAvailable {
				log.Printf("order %d: menu item %q unavailable, skipping", orderID, menuItem.Name)
				continue
			}

			existing, err := s.Repo.GetOrderItem(tx, orderID, it.MenuItemID)
			if err != nil {
				return err
			}
			if existing != nil {
				if err := s.Repo.AddOrderItemQuantity(tx, existing.ID, it.Quantity); err != nil {
					return err
				}
				continue
			}

			oi := entity.OrderItem{
				OrderID:             orderID,
				MenuItemID:          menuItem.ID,
				Quantity:            it.Quantity,
				Price:               menuItem.Price,
				SpecialInstructions: it.SpecialInstructions,
				Status:              entity.OrderPending,
			}
			if err := s.Repo.CreateOrderItem(tx, &oi); err != nil {
				return err
			}
		}

		total, err := s.Repo.SumOrderItems(tx, orderID)
		if err != nil {
			return err
		}
		return s.Repo.UpdateOrder(tx, orderID, map[string]any{"total_amount": total})
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.GetOrderDetail(orderID)
}

// ----- ProcessPayment -----

// ProcessPayment records the payment and completes the order in one
// atomic step; there is no externally observable paid-but-open state.
func (s *OrderService) ProcessPayment(orderID uint, method entity.PaymentMethod, cashierID uint) (*entity.Order, error) {
	if !method.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown payment method %q", method)}
	}

	var (
		tableID     uint
		tableNumber int
		freed       bool
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.GetOrder(tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "order", ID: orderID}
		}
		if err != nil {
			return err
		}
		if order.Status != entity.OrderServed {
			return &InvalidStateError{Action: "process payment", Status: order.Status}
		}

		table, err := s.TableRepo.Get(tx, order.TableID)
		if err != nil {
			return err
		}
		tableID = table.ID
		tableNumber = table.Number

		now := time.Now()
		ok, err := s.Repo.UpdateStatusGuard(tx, orderID, entity.OrderServed, map[string]any{
			"status":         entity.OrderCompleted,
			"payment_status": entity.PaymentPaid,
			"payment_method": method,
			"cashier_id":     cashierID,
			"completed_at":   now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return &ConflictError{Msg: "order changed while processing payment"}
		}

		freed, err = s.Tables.OnOrderClosed(tx, order.TableID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Notif.Emit(entity.EventPaymentCompleted,
		fmt.Sprintf("Payment completed for order #%d (table %d)", orderID, tableNumber),
		ws.PaymentCompletedPayload{OrderID: orderID, TableNumber: tableNumber},
		nil)
	if freed {
		s.Notif.Emit(entity.EventTableStatusChange,
			fmt.Sprintf("Table %d is now available", tableNumber),
			ws.TableStatusPayload{TableID: tableID, TableNumber: tableNumber, Status: entity.TableAvailable},
			nil)
	}

	return s.Repo.GetOrderDetail(orderID)
}

// ----- Feedback -----

func (s *OrderService) AddFeedback(orderID uint, feedback string) (*entity.Order, error) {
	if feedback == "" {
		return nil, &ValidationError{Msg: "feedback is required"}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		order, err := s.Repo.GetOrder(tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Resource: "order", ID: orderID}
		}
		if err != nil {
			return err
		}
		if order.Status != entity.OrderCompleted {
			return &InvalidStateError{Action: "add feedback", Status: order.Status}
		}
		return s.Repo.UpdateOrder(tx, orderID, map[string]any{"feedback": feedback})
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.GetOrderDetail(orderID)
}

// ----- Reads -----

func (s *OrderService) List(status *entity.OrderStatus, tableID *uint, limit int) ([]entity.Order, error) {
	if status != nil && !status.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown order status %q", *status)}
	}
	return s.Repo.ListOrders(status, tableID, limit)
}

func (s *OrderService) Detail(orderID uint) (*entity.Order, error) {
	o, err := s.Repo.GetOrderDetail(orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "order", ID: orderID}
	}
	return o, err
}

// ActiveForTable is the guest catch-up path after a lost session.
func (s *OrderService) ActiveForTable(tableID uint) (*entity.Order, error) {
	active, err := s.Repo.ActiveOrderForTable(s.DB, tableID)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, &NotFoundError{Resource: "active order for table", ID: tableID}
	}
	return s.Repo.GetOrderDetail(active.ID)
}
