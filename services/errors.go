package services

import (
	"fmt"

	"backend/entity"
)

// ValidationError: malformed input, never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError: unknown order/table/menu item/user, permanent.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// ConflictError: an active order already exists for the table, or a
// concurrent mutation raced this one. The caller should re-fetch and
// decide, not blindly retry. ExistingOrderID is set for the
// active-order case so the UI can offer "view existing order".
type ConflictError struct {
	Msg             string
	ExistingOrderID uint
}

func (e *ConflictError) Error() string { return e.Msg }

// InvalidTransitionError: the requested status is not reachable from the
// current one. Permanent; the message names both so the UI can explain.
type InvalidTransitionError struct {
	From entity.OrderStatus
	To   entity.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

// InvalidStateError: the operation itself is not allowed in the order's
// current state (adding items to a served order, paying an unserved one).
type InvalidStateError struct {
	Action string
	Status entity.OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while order is %s", e.Action, e.Status)
}
