package repository

import (
	"backend/entity"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *entity.Notification) error {
	return r.DB.Create(n).Error
}

// ListForRole: admin sees everything; other staff see rows targeted at
// their role plus untargeted broadcasts. Newest first.
func (r *NotificationRepository) ListForRole(role entity.Role, limit int) ([]entity.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	db := r.DB.Order("created_at DESC").Limit(limit)
	if role != entity.RoleAdmin {
		db = db.Where("target_role = ? OR target_role IS NULL", role)
	}
	var out []entity.Notification
	err := db.Find(&out).Error
	return out, err
}

// MarkRead flips isRead; rows are otherwise immutable.
func (r *NotificationRepository) MarkRead(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.Model(&entity.Notification{}).
		Where("id IN ?", ids).
		Update("is_read", true).Error
}
