package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"saletech/model"
	"saletech/repository"
)

// memStore is an in-memory repository set. WithinTx restores a snapshot
// when the callback fails, so tests can assert nothing partial is left.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	orders   map[uint]model.Order
	payments map[uint]model.Payment
	products map[uint]model.Product
	carts    map[uint]model.Cart
	details  map[uint]model.CartDetail
	users    map[uint]model.User

	failPaymentCreate error
}

func newMemStore() *memStore {
	return &memStore{
		nextID:   100,
		orders:   map[uint]model.Order{},
		payments: map[uint]model.Payment{},
		products: map[uint]model.Product{},
		carts:    map[uint]model.Cart{},
		details:  map[uint]model.CartDetail{},
		users:    map[uint]model.User{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memStore) WithinTx(_ context.Context, fn func(r repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, payments, products := copyMap(s.orders), copyMap(s.payments), copyMap(s.products)
	carts, details, nextID := copyMap(s.carts), copyMap(s.details), s.nextID
	if err := fn(memRepos{s}); err != nil {
		s.orders, s.payments, s.products = orders, payments, products
		s.carts, s.details, s.nextID = carts, details, nextID
		return err
	}
	return nil
}

type memRepos struct{ s *memStore }

func (r memRepos) Orders() repository.OrderRepository     { return memOrders{r.s} }
func (r memRepos) Payments() repository.PaymentRepository { return memPayments{r.s} }
func (r memRepos) Products() repository.ProductRepository { return memProducts{r.s} }
func (r memRepos) Carts() repository.CartRepository       { return memCarts{r.s} }

// seeding helpers

func (s *memStore) addProduct(title string, price int64, qty int) model.Product {
	p := model.Product{DTO: model.DTO{ID: s.id()}, Title: title, Category: "Laptop", Price: price, Quantity: qty, IsActive: true}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addToCart(userID, productID uint, qty int, selected bool) {
	cart, _ := memCarts{s}.FindOrCreate(context.Background(), userID)
	d := model.CartDetail{ID: s.id(), CartID: cart.ID, ProductID: productID, Quantity: qty, IsSelected: selected}
	s.details[d.ID] = d
}

func (s *memStore) cartSize(userID uint) int {
	items, _ := memCarts{s}.ListDetails(context.Background(), userID)
	return len(items)
}

func (s *memStore) paymentOf(orderID uint) model.Payment {
	for _, p := range s.payments {
		if p.OrderID == orderID {
			return p
		}
	}
	return model.Payment{}
}

// orders

type memOrders struct{ s *memStore }

func (m memOrders) Create(_ context.Context, order *model.Order) error {
	order.ID = m.s.id()
	for i := range order.OrderDetails {
		order.OrderDetails[i].ID = m.s.id()
		order.OrderDetails[i].OrderID = order.ID
	}
	stored := *order
	stored.OrderDetails = append([]model.OrderDetail(nil), order.OrderDetails...)
	m.s.orders[order.ID] = stored
	return nil
}

func (m memOrders) hydrate(o model.Order) model.Order {
	o.OrderDetails = append([]model.OrderDetail(nil), o.OrderDetails...)
	o.Payment = nil
	for _, p := range m.s.payments {
		if p.OrderID == o.ID {
			o.Payment = &p
		}
	}
	return o
}

func (m memOrders) FindByID(_ context.Context, id uint) (model.Order, error) {
	o, ok := m.s.orders[id]
	if !ok {
		return model.Order{}, repository.ErrNotFound
	}
	return m.hydrate(o), nil
}

func (m memOrders) FindByIDForUser(ctx context.Context, id, userID uint) (model.Order, error) {
	o, err := m.FindByID(ctx, id)
	if err != nil || o.UserID != userID {
		return model.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (m memOrders) ListByUser(_ context.Context, userID uint, status *model.OrderStatus) ([]model.Order, error) {
	var out []model.Order
	for _, o := range m.s.orders {
		if o.UserID == userID && (status == nil || o.Status == *status) {
			out = append(out, m.hydrate(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m memOrders) UpdateStatus(_ context.Context, id uint, status model.OrderStatus) error {
	o, ok := m.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	m.s.orders[id] = o
	return nil
}

// payments

type memPayments struct{ s *memStore }

func (m memPayments) Create(_ context.Context, p *model.Payment) error {
	if m.s.failPaymentCreate != nil {
		return m.s.failPaymentCreate
	}
	for _, existing := range m.s.payments {
		if existing.OrderID == p.OrderID {
			return fmt.Errorf("duplicate payment for order %d", p.OrderID)
		}
	}
	p.ID = m.s.id()
	m.s.payments[p.ID] = *p
	return nil
}

func (m memPayments) FindByOrderID(_ context.Context, orderID uint) (model.Payment, error) {
	for _, p := range m.s.payments {
		if p.OrderID == orderID {
			return p, nil
		}
	}
	return model.Payment{}, repository.ErrNotFound
}

func (m memPayments) Update(_ context.Context, p *model.Payment) error {
	if _, ok := m.s.payments[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.s.payments[p.ID] = *p
	return nil
}

func (m memPayments) FindExpiredPending(_ context.Context, now time.Time) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range m.s.payments {
		if p.Status == model.PaymentPending && p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// products

type memProducts struct{ s *memStore }

func (m memProducts) FindByID(_ context.Context, id uint) (model.Product, error) {
	p, ok := m.s.products[id]
	if !ok {
		return model.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (m memProducts) DecreaseStockIfEnough(_ context.Context, id uint, qty int) (bool, error) {
	p, ok := m.s.products[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	p.QuantitySold += qty
	m.s.products[id] = p
	return true, nil
}

func (m memProducts) RestoreStock(_ context.Context, id uint, qty int) error {
	p, ok := m.s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Quantity += qty
	p.QuantitySold = max(p.QuantitySold-qty, 0)
	m.s.products[id] = p
	return nil
}

// carts

type memCarts struct{ s *memStore }

func (m memCarts) FindOrCreate(_ context.Context, userID uint) (model.Cart, error) {
	for _, c := range m.s.carts {
		if c.UserID == userID {
			return c, nil
		}
	}
	c := model.Cart{DTO: model.DTO{ID: m.s.id()}, UserID: userID}
	m.s.carts[c.ID] = c
	return c, nil
}

func (m memCarts) userCart(userID uint) (uint, bool) {
	for _, c := range m.s.carts {
		if c.UserID == userID {
			return c.ID, true
		}
	}
	return 0, false
}

func (m memCarts) list(userID uint, onlySelected bool) []model.CartDetail {
	cartID, ok := m.userCart(userID)
	if !ok {
		return nil
	}
	var out []model.CartDetail
	for _, d := range m.s.details {
		if d.CartID == cartID && (!onlySelected || d.IsSelected) {
			d.Product = m.s.products[d.ProductID]
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m memCarts) ListDetails(_ context.Context, userID uint) ([]model.CartDetail, error) {
	return m.list(userID, false), nil
}

func (m memCarts) ListSelected(_ context.Context, userID uint) ([]model.CartDetail, error) {
	return m.list(userID, true), nil
}

func (m memCarts) FindDetail(_ context.Context, cartID, productID uint) (model.CartDetail, error) {
	for _, d := range m.s.details {
		if d.CartID == cartID && d.ProductID == productID {
			d.Product = m.s.products[d.ProductID]
			return d, nil
		}
	}
	return model.CartDetail{}, repository.ErrNotFound
}

func (m memCarts) SaveDetail(_ context.Context, d *model.CartDetail) error {
	if d.ID == 0 {
		d.ID = m.s.id()
	}
	stored := *d
	stored.Product = model.Product{}
	m.s.details[d.ID] = stored
	return nil
}

func (m memCarts) DeleteDetail(_ context.Context, cartID, productID uint) error {
	for id, d := range m.s.details {
		if d.CartID == cartID && d.ProductID == productID {
			delete(m.s.details, id)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m memCarts) DeleteSelected(_ context.Context, userID uint) error {
	for _, d := range m.list(userID, true) {
		delete(m.s.details, d.ID)
	}
	return nil
}

func (m memCarts) ClearByUser(_ context.Context, userID uint) error {
	for _, d := range m.list(userID, false) {
		delete(m.s.details, d.ID)
	}
	return nil
}

// users

type memUsers struct{ s *memStore }

func (m memUsers) Create(_ context.Context, u *model.User) error {
	u.ID = m.s.id()
	m.s.users[u.ID] = *u
	return nil
}

func (m memUsers) FindByID(_ context.Context, id uint) (model.User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m memUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	for _, u := range m.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m memUsers) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, bool, error) {
	var byName, byEmail bool
	for _, u := range m.s.users {
		byName = byName || u.Username == username
		byEmail = byEmail || u.Email == email
	}
	return byName, byEmail, nil
}

// collaborators

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

type fakeGateway struct {
	refundResult model.RefundResult
	refundErr    error
	refunds      []model.RefundRequest
}

func (g *fakeGateway) BuildPaymentURL(req model.PaymentRequest) (string, error) {
	if req.TxnRef == "" {
		return "", errors.New("missing txn ref")
	}
	return fmt.Sprintf("https://pay.test/?ref=%s&order=%d", req.TxnRef, req.OrderID), nil
}

func (g *fakeGateway) Refund(_ context.Context, req model.RefundRequest) (model.RefundResult, error) {
	g.refunds = append(g.refunds, req)
	return g.refundResult, g.refundErr
}

type recordingPublisher struct {
	events []model.OrderEvent
}

func (p *recordingPublisher) PublishOrderEvent(_ context.Context, e model.OrderEvent) error {
	p.events = append(p.events, e)
	return nil
}
