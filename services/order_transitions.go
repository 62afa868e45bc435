// services/order_transitions.go
package services

import (
	"errors"
	"fmt"
	"time"

	"backend/entity"
	"backend/ws"

	"gorm.io/gorm"
)

// allowedNext is the whole transition graph. completed and cancelled are
// terminal; cancellation is reachable from every non-terminal state.
var allowedNext = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderPending:   {entity.OrderPlaced, entity.OrderCancelled},
	entity.OrderPlaced:    {entity.OrderPreparing, entity.OrderCancelled},
	entity.OrderPreparing: {entity.OrderServed, entity.OrderCancelled},
	entity.OrderServed:    {entity.OrderCompleted, entity.OrderCancelled},
	entity.OrderCompleted: {},
	entity.OrderCancelled: {},
}

func canTransition(from, to entity.OrderStatus) bool {
	for _, s := range allowedNext[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves an order along the graph. The write is guarded on the
// status that was read, so of two racing staff actions exactly one wins;
// the loser gets a ConflictError. Requesting the status the order is
// already in is also a conflict (someone else just applied it), never an
// invalid transition.
func (s *OrderService) Transition(orderID uint, to entity.OrderStatus, serverID *uint) (*entity.Order, error) {
	if !to.Valid() {
		return nil, &ValidationError{Msg: fmt.Sprintf("unknown order status %q", to)}
	}

	var (
		from        entity.OrderStatus
		totalAmount int64
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
		from = order.Status
		totalAmount = order.TotalAmount

		if to == from {
			return &ConflictError{Msg: fmt.Sprintf("order is already %s", to)}
		}
		if !canTransition(from, to) {
			return &InvalidTransitionError{From: from, To: to}
		}

		table, err := s.TableRepo.Get(tx, order.TableID)
		if err != nil {
			return err
		}
		tableID = table.ID
		tableNumber = table.Number

		updates := map[string]any{"status": to}
		if to == entity.OrderCompleted {
			updates["completed_at"] = time.Now()
		}
		if serverID != nil && (to == entity.OrderPlaced || to == entity.OrderPreparing) {
			updates["server_id"] = *serverID
		}

		ok, err := s.Repo.UpdateStatusGuard(tx, orderID, from, updates)
		if err != nil {
			return err
		}
		if !ok {
			return &ConflictError{Msg: "order status changed concurrently"}
		}

		if to.Terminal() {
			freed, err = s.Tables.OnOrderClosed(tx, order.TableID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// events fire only after the state change has committed
	if to == entity.OrderServed {
		cashier := entity.RoleCashier
		s.Notif.Emit(entity.EventOrderReadyForPayment,
			fmt.Sprintf("Order #%d (table %d) is ready for payment", orderID, tableNumber),
			ws.OrderReadyForPaymentPayload{OrderID: orderID, TableNumber: tableNumber, TotalAmount: totalAmount},
			&cashier)
	}
	if freed {
		s.Notif.Emit(entity.EventTableStatusChange,
			fmt.Sprintf("Table %d is now available", tableNumber),
			ws.TableStatusPayload{TableID: tableID, TableNumber: tableNumber, Status: entity.TableAvailable},
			nil)
	}
	s.Notif.Emit(entity.EventOrderStatusChange,
		fmt.Sprintf("Order #%d (table %d) is now %s", orderID, tableNumber, to),
		ws.OrderStatusChangePayload{OrderID: orderID, TableNumber: tableNumber, Status: to},
		nil)

	return s.Repo.GetOrderDetail(orderID)
}
