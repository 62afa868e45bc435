package entity

// Role of a staff account. Guests have no account and no role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleWaiter  Role = "waiter"
	RoleCashier Role = "cashier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWaiter, RoleCashier:
		return true
	}
	return false
}

// OrderStatus is the order lifecycle state. The allowed transitions live
// in the order service; everything else treats these as opaque labels.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPlaced    OrderStatus = "placed"
	OrderPreparing OrderStatus = "preparing"
	OrderServed    OrderStatus = "served"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// ActiveOrderStatuses are the states that keep a table occupied. At most
// one order per table may be in any of them.
var ActiveOrderStatuses = []OrderStatus{OrderPending, OrderPlaced, OrderPreparing, OrderServed}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPlaced, OrderPreparing, OrderServed, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

// EventType names both the live websocket push and the durable
// notification row it leaves behind.
type EventType string

const (
	EventNewOrder               EventType = "new_order"
	EventOrderStatusChange      EventType = "order_status_change"
	EventOrderReadyForPayment   EventType = "order_ready_for_payment"
	EventPaymentCompleted       EventType = "payment_completed"
	EventMenuAvailabilityChange EventType = "menu_item_availability_change"
	EventTableStatusChange      EventType = "table_status_change"
)
