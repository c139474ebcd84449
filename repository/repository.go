package repository

import (
	"context"
	"errors"
	"time"

	"saletech/model"
)

var ErrNotFound = errors.New("record not found")

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint) (model.Order, error)
	FindByIDForUser(ctx context.Context, id, userID uint) (model.Order, error)
	ListByUser(ctx context.Context, userID uint, status *model.OrderStatus) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	// FindByOrderID locks the row for the rest of the transaction.
	FindByOrderID(ctx context.Context, orderID uint) (model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
	FindExpiredPending(ctx context.Context, now time.Time) ([]model.Payment, error)
}

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (model.Product, error)
	// DecreaseStockIfEnough returns false when fewer than qty units are left.
	DecreaseStockIfEnough(ctx context.Context, id uint, qty int) (bool, error)
	RestoreStock(ctx context.Context, id uint, qty int) error
}

type CartRepository interface {
	FindOrCreate(ctx context.Context, userID uint) (model.Cart, error)
	ListDetails(ctx context.Context, userID uint) ([]model.CartDetail, error)
	ListSelected(ctx context.Context, userID uint) ([]model.CartDetail, error)
	FindDetail(ctx context.Context, cartID, productID uint) (model.CartDetail, error)
	SaveDetail(ctx context.Context, detail *model.CartDetail) error
	DeleteDetail(ctx context.Context, cartID, productID uint) error
	DeleteSelected(ctx context.Context, userID uint) error
	ClearByUser(ctx context.Context, userID uint) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error)
}

type TxRepos interface {
	Orders() OrderRepository
	Payments() PaymentRepository
	Products() ProductRepository
	Carts() CartRepository
}

type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
