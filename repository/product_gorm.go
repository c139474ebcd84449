package repository

import (
	"context"
	"errors"

	"saletech/model"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id uint) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// DecreaseStockIfEnough moves qty units from quantity to quantity_sold in a
// single conditional UPDATE, so concurrent orders cannot oversell.
func (r *ProductGormRepository) DecreaseStockIfEnough(ctx context.Context, id uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]any{
			"quantity":      gorm.Expr("quantity - ?", qty),
			"quantity_sold": gorm.Expr("quantity_sold + ?", qty),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProductGormRepository) RestoreStock(ctx context.Context, id uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":      gorm.Expr("quantity + ?", qty),
			"quantity_sold": gorm.Expr("GREATEST(quantity_sold - ?, 0)", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
