package repository

import (
	"errors"

	"backend/entity"

	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

// ---------------- Orders ----------------

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) GetOrder(tx *gorm.DB, orderID uint) (*entity.Order, error) {
	var o entity.Order
	if err := tx.First(&o, orderID).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// GET /orders/:id → order พร้อม items และโต๊ะ
func (r *OrderRepository) GetOrderDetail(orderID uint) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("OrderItems").Preload("OrderItems.MenuItem").Preload("Table").
		First(&o, orderID).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ActiveOrderForTable returns the one order keeping the table occupied,
// or (nil, nil) when the table is free.
func (r *OrderRepository) ActiveOrderForTable(tx *gorm.DB, tableID uint) (*entity.Order, error) {
	var o entity.Order
	err := tx.Where("table_id = ? AND status IN ?", tableID, entity.ActiveOrderStatuses).
		Order("id DESC").First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GET /orders?status=&tableId= → staff order list, newest first
func (r *OrderRepository) ListOrders(status *entity.OrderStatus, tableID *uint, limit int) ([]entity.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.DB.Preload("OrderItems").Preload("OrderItems.MenuItem").Preload("Table")
	if status != nil {
		db = db.Where("status = ?", *status)
	}
	if tableID != nil {
		db = db.Where("table_id = ?", *tableID)
	}
	var out []entity.Order
	err := db.Order("created_at DESC").Limit(limit).Find(&out).Error
	return out, err
}

// UpdateStatusGuard is the optimistic-concurrency core: the row only
// moves when it is still in `from`. Two racing transitions cannot both
// see 1 row affected.
func (r *OrderRepository) UpdateStatusGuard(tx *gorm.DB, orderID uint, from entity.OrderStatus, updates map[string]any) (bool, error) {
	res := tx.Model(&entity.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *OrderRepository) UpdateOrder(tx *gorm.DB, orderID uint, updates map[string]any) error {
	return tx.Model(&entity.Order{}).Where("id = ?", orderID).Updates(updates).Error
}

// ---------------- Order Items ----------------

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

// GetOrderItem fetches the row for (orderID, menuItemID); (nil, nil) when
// the item is not on the order yet.
func (r *OrderRepository) GetOrderItem(tx *gorm.DB, orderID, menuItemID uint) (*entity.OrderItem, error) {
	var oi entity.OrderItem
	err := tx.Where("order_id = ? AND menu_item_id = ?", orderID, menuItemID).First(&oi).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &oi, nil
}

func (r *OrderRepository) AddOrderItemQuantity(tx *gorm.DB, itemID uint, delta int) error {
	return tx.Model(&entity.OrderItem{}).Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *OrderRepository) GetOrderItems(orderID uint) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.DB.Where("order_id = ?", orderID).Find(&items).Error
	return items, err
}

// SumOrderItems recomputes the total from the stored price snapshots, so
// later menu price changes never leak into an existing order.
func (r *OrderRepository) SumOrderItems(tx *gorm.DB, orderID uint) (int64, error) {
	var row struct{ Total int64 }
	err := tx.Model(&entity.OrderItem{}).
		Select("COALESCE(SUM(price * quantity), 0) AS total").
		Where("order_id = ?", orderID).
		Scan(&row).Error
	return row.Total, err
}
