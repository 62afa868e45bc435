package ws

import (
	"time"

	"backend/entity"
)

// Event is the wire envelope pushed to connected clients.
type Event struct {
	Type      entity.EventType `json:"type"`
	Payload   any              `json:"payload"`
	Timestamp time.Time        `json:"timestamp"`
}

type NewOrderPayload struct {
	OrderID     uint `json:"orderId"`
	TableNumber int  `json:"tableNumber"`
}

type OrderStatusChangePayload struct {
	OrderID     uint               `json:"orderId"`
	TableNumber int                `json:"tableNumber"`
	Status      entity.OrderStatus `json:"status"`
}

type OrderReadyForPaymentPayload struct {
	OrderID     uint  `json:"orderId"`
	TableNumber int   `json:"tableNumber"`
	TotalAmount int64 `json:"totalAmount"`
}

type PaymentCompletedPayload struct {
	OrderID     uint `json:"orderId"`
	TableNumber int  `json:"tableNumber"`
}

type MenuAvailabilityPayload struct {
	MenuItemID  uint   `json:"menuItemId"`
	Name        string `json:"name"`
	IsAvailable bool   `json:"isAvailable"`
}

type TableStatusPayload struct {
	TableID     uint               `json:"tableId"`
	TableNumber int                `json:"tableNumber"`
	Status      entity.TableStatus `json:"status"`
}

func NewEvent(t entity.EventType, payload any) Event {
	return Event{Type: t, Payload: payload, Timestamp: time.Now()}
}

// authenticateMsg is the client→server handshake:
// {"type":"authenticate","payload":{"userId":1,"role":"waiter"}}
type authenticateMsg struct {
	Type    string `json:"type"`
	Payload struct {
		UserID uint        `json:"userId"`
		Role   entity.Role `json:"role"`
	} `json:"payload"`
}
