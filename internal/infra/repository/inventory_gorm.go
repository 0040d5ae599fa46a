package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// キャッシュの現在値を設定。キャッシュ無効（NULL）の行は対象外
func (r *InventoryGormRepository) SetCachedQty(ctx context.Context, sku string, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("sku = ? AND current_qty IS NOT NULL", sku).
		Update("current_qty", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
