package repository

import (
	"context"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders   OrderRepository
	payments PaymentRepository
	products ProductRepository
	carts    CartRepository
}

func (r *txReposGorm) Orders() OrderRepository     { return r.orders }
func (r *txReposGorm) Payments() PaymentRepository { return r.payments }
func (r *txReposGorm) Products() ProductRepository { return r.products }
func (r *txReposGorm) Carts() CartRepository       { return r.carts }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txReposGorm{
			orders:   NewOrderGormRepository(tx),
			payments: NewPaymentGormRepository(tx),
			products: NewProductGormRepository(tx),
			carts:    NewCartGormRepository(tx),
		})
	})
}
