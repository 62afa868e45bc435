package services

import (
	"fmt"
	"strings"
	"testing"

	"backend/entity"
	"backend/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. The pool is
// capped at one connection so concurrent transactions serialize exactly
// like row locks would on a server database, which keeps the
// conflict-path assertions deterministic.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Table{},
		&entity.Category{}, &entity.MenuItem{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Notification{},
	))
	return db
}

type testEnv struct {
	db *gorm.DB

	orders *OrderService
	tables *TableService
	menu   *MenuService
	notif  *NotificationService

	table       entity.Table
	padThai     entity.MenuItem
	curry       entity.MenuItem
	offMenuItem entity.MenuItem // seeded unavailable
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	orderRepo := repository.NewOrderRepository(db)
	tableRepo := repository.NewTableRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	env := &testEnv{db: db}
	env.notif = NewNotificationService(db, notifRepo)
	env.tables = NewTableService(db, tableRepo, orderRepo, env.notif)
	env.orders = NewOrderService(db, orderRepo, menuRepo, tableRepo, env.tables, env.notif)
	env.menu = NewMenuService(db, menuRepo, env.notif)

	env.table = entity.Table{Number: 5, Seats: 4, Status: entity.TableAvailable}
	require.NoError(t, db.Create(&env.table).Error)

	cat := entity.Category{Name: "Mains", IsActive: true}
	require.NoError(t, db.Create(&cat).Error)

	env.padThai = entity.MenuItem{Name: "Pad Thai", Price: 24000, CategoryID: cat.ID, IsAvailable: true}
	require.NoError(t, db.Create(&env.padThai).Error)
	env.curry = entity.MenuItem{Name: "Green Curry", Price: 26000, CategoryID: cat.ID, IsAvailable: true}
	require.NoError(t, db.Create(&env.curry).Error)
	env.offMenuItem = entity.MenuItem{Name: "Seasonal Special", Price: 30000, CategoryID: cat.ID, IsAvailable: false}
	require.NoError(t, db.Create(&env.offMenuItem).Error)

	return env
}

// createOrder places a fresh two-item order on the env's table.
func (e *testEnv) createOrder(t *testing.T) *entity.Order {
	t.Helper()
	order, err := e.orders.Create(&CreateOrderReq{
		TableID: e.table.ID,
		Items: []OrderItemIn{
			{MenuItemID: e.padThai.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)
	return order
}

// advance walks an order along the happy path up to target.
func (e *testEnv) advance(t *testing.T, orderID uint, target entity.OrderStatus) *entity.Order {
	t.Helper()
	path := []entity.OrderStatus{entity.OrderPlaced, entity.OrderPreparing, entity.OrderServed, entity.OrderCompleted}
	var out *entity.Order
	for _, s := range path {
		var err error
		out, err = e.orders.Transition(orderID, s, nil)
		require.NoError(t, err)
		if s == target {
			return out
		}
	}
	t.Fatalf("unreachable target status %s", target)
	return nil
}

func (e *testEnv) tableStatus(t *testing.T) entity.TableStatus {
	t.Helper()
	var tab entity.Table
	require.NoError(t, e.db.First(&tab, e.table.ID).Error)
	return tab.Status
}
