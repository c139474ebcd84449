package repository

import (
	"context"
	"errors"

	"saletech/model"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) FindOrCreate(ctx context.Context, userID uint) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where(model.Cart{UserID: userID}).
		FirstOrCreate(&cart).Error
	return cart, err
}

func (r *CartGormRepository) details(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).
		Joins("JOIN carts ON carts.id = cart_details.cart_id").
		Where("carts.user_id = ?", userID).
		Preload("Product").
		Order("cart_details.id asc")
}

func (r *CartGormRepository) ListDetails(ctx context.Context, userID uint) ([]model.CartDetail, error) {
	var details []model.CartDetail
	if err := r.details(ctx, userID).Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *CartGormRepository) ListSelected(ctx context.Context, userID uint) ([]model.CartDetail, error) {
	var details []model.CartDetail
	if err := r.details(ctx, userID).Where("cart_details.is_selected = ?", true).Find(&details).Error; err != nil {
		return nil, err
	}
	return details, nil
}

func (r *CartGormRepository) FindDetail(ctx context.Context, cartID, productID uint) (model.CartDetail, error) {
	var d model.CartDetail
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Preload("Product").
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartDetail{}, ErrNotFound
	}
	if err != nil {
		return model.CartDetail{}, err
	}
	return d, nil
}

func (r *CartGormRepository) SaveDetail(ctx context.Context, detail *model.CartDetail) error {
	return r.db.WithContext(ctx).Omit("Product").Save(detail).Error
}

func (r *CartGormRepository) DeleteDetail(ctx context.Context, cartID, productID uint) error {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartDetail{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) cartIDs(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Cart{}).Select("id").Where("user_id = ?", userID)
}

func (r *CartGormRepository) DeleteSelected(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("cart_id IN (?) AND is_selected = ?", r.cartIDs(ctx, userID), true).
		Delete(&model.CartDetail{}).Error
}

func (r *CartGormRepository) ClearByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("cart_id IN (?)", r.cartIDs(ctx, userID)).
		Delete(&model.CartDetail{}).Error
}
