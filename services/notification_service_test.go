package services

import (
	"testing"

	"backend/entity"
	"backend/ws"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationSubscribeAndUnsubscribe(t *testing.T) {
	env := newTestEnv(t)

	var seen []entity.Notification
	unsub := env.notif.OnNotification(func(n entity.Notification) {
		seen = append(seen, n)
	})

	waiter := entity.RoleWaiter
	n, err := env.notif.Create(entity.EventNewOrder, "New order #1",
		ws.NewOrderPayload{OrderID: 1, TableNumber: 5}, &waiter)
	require.NoError(t, err)
	require.NotZero(t, n.ID)

	require.Len(t, seen, 1)
	assert.Equal(t, entity.EventNewOrder, seen[0].Type)
	assert.Equal(t, "New order #1", seen[0].Message)
	require.NotNil(t, seen[0].TargetRole)
	assert.Equal(t, entity.RoleWaiter, *seen[0].TargetRole)
	assert.JSONEq(t, `{"orderId":1,"tableNumber":5}`, string(seen[0].Details))

	unsub()
	env.notif.Emit(entity.EventNewOrder, "New order #2",
		ws.NewOrderPayload{OrderID: 2, TableNumber: 5}, &waiter)
	assert.Len(t, seen, 1)
}

func TestNotificationListForRole(t *testing.T) {
	env := newTestEnv(t)

	waiter := entity.RoleWaiter
	cashier := entity.RoleCashier
	env.notif.Emit(entity.EventNewOrder, "for waiters", nil, &waiter)
	env.notif.Emit(entity.EventOrderReadyForPayment, "for cashiers", nil, &cashier)
	env.notif.Emit(entity.EventTableStatusChange, "for everyone", nil, nil)

	got, err := env.notif.ListForRole(entity.RoleWaiter, 0)
	require.NoError(t, err)
	messages := make([]string, 0, len(got))
	for _, n := range got {
		messages = append(messages, n.Message)
	}
	assert.ElementsMatch(t, []string{"for waiters", "for everyone"}, messages)

	got, err = env.notif.ListForRole(entity.RoleAdmin, 0)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestNotificationMarkRead(t *testing.T) {
	env := newTestEnv(t)

	n, err := env.notif.Create(entity.EventTableStatusChange, "table 5 reserved", nil, nil)
	require.NoError(t, err)
	assert.False(t, n.IsRead)

	require.NoError(t, env.notif.MarkRead([]uint{n.ID}))

	var got entity.Notification
	require.NoError(t, env.db.First(&got, n.ID).Error)
	assert.True(t, got.IsRead)

	var validation *ValidationError
	require.ErrorAs(t, env.notif.MarkRead(nil), &validation)
}
