package repository

import (
	"errors"

	"backend/entity"

	"gorm.io/gorm"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

func (r *TableRepository) List() ([]entity.Table, error) {
	var out []entity.Table
	err := r.DB.Order("number ASC").Find(&out).Error
	return out, err
}

func (r *TableRepository) Get(tx *gorm.DB, id uint) (*entity.Table, error) {
	var t entity.Table
	if err := tx.First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) GetByNumber(number int) (*entity.Table, error) {
	var t entity.Table
	err := r.DB.Where("number = ?", number).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) Create(t *entity.Table) error {
	return r.DB.Create(t).Error
}

func (r *TableRepository) Update(id uint, updates map[string]any) error {
	return r.DB.Model(&entity.Table{}).Where("id = ?", id).Updates(updates).Error
}

func (r *TableRepository) Delete(id uint) error {
	return r.DB.Delete(&entity.Table{}, id).Error
}

func (r *TableRepository) SetStatus(tx *gorm.DB, id uint, status entity.TableStatus) error {
	return tx.Model(&entity.Table{}).Where("id = ?", id).Update("status", status).Error
}
