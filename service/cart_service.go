package service

import (
	"context"
	"errors"

	"saletech/constants"
	"saletech/model"
	"saletech/repository"
)

type CartService struct {
	tx repository.TransactionManager
}

func NewCartService(tx repository.TransactionManager) *CartService {
	return &CartService{tx: tx}
}

func (s *CartService) GetCart(ctx context.Context, userID uint) (model.CartView, error) {
	var view model.CartView
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		var err error
		view, err = cartView(ctx, r.Carts(), userID)
		return err
	})
	return view, err
}

func cartView(ctx context.Context, carts repository.CartRepository, userID uint) (model.CartView, error) {
	cart, err := carts.FindOrCreate(ctx, userID)
	if err != nil {
		return model.CartView{}, err
	}
	items, err := carts.ListDetails(ctx, userID)
	if err != nil {
		return model.CartView{}, err
	}
	view := model.CartView{CartID: cart.ID, Items: items}
	for _, item := range items {
		if item.IsSelected {
			view.SelectedCount++
			view.SelectedSubtotal += item.Product.Price * int64(item.Quantity)
		}
	}
	return view, nil
}

// AddItem adds a product to the cart, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID uint, in model.AddCartItemInput) (model.CartView, error) {
	var view model.CartView
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		product, err := activeProduct(ctx, r.Products(), in.ProductID)
		if err != nil {
			return err
		}
		cart, err := r.Carts().FindOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		detail, err := r.Carts().FindDetail(ctx, cart.ID, product.ID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			detail = model.CartDetail{CartID: cart.ID, ProductID: product.ID, IsSelected: true}
		case err != nil:
			return err
		}
		detail.Quantity += in.Quantity
		if detail.Quantity > product.Quantity {
			return BadRequest("Only %d of %q left in stock", product.Quantity, product.Title)
		}
		if err := r.Carts().SaveDetail(ctx, &detail); err != nil {
			return err
		}
		view, err = cartView(ctx, r.Carts(), userID)
		return err
	})
	return view, err
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) (model.CartView, error) {
	return s.updateDetail(ctx, userID, productID, func(product model.Product, d *model.CartDetail) error {
		if quantity > product.Quantity {
			return BadRequest("Only %d of %q left in stock", product.Quantity, product.Title)
		}
		d.Quantity = quantity
		return nil
	})
}

func (s *CartService) SetSelected(ctx context.Context, userID, productID uint, selected bool) (model.CartView, error) {
	return s.updateDetail(ctx, userID, productID, func(_ model.Product, d *model.CartDetail) error {
		d.IsSelected = selected
		return nil
	})
}

func (s *CartService) updateDetail(ctx context.Context, userID, productID uint, mutate func(model.Product, *model.CartDetail) error) (model.CartView, error) {
	var view model.CartView
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		cart, err := r.Carts().FindOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		detail, err := r.Carts().FindDetail(ctx, cart.ID, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound(constants.CART_ITEM_NOT_FOUND)
		}
		if err != nil {
			return err
		}
		product, err := r.Products().FindByID(ctx, productID)
		if err != nil {
			return err
		}
		if err := mutate(product, &detail); err != nil {
			return err
		}
		if err := r.Carts().SaveDetail(ctx, &detail); err != nil {
			return err
		}
		view, err = cartView(ctx, r.Carts(), userID)
		return err
	})
	return view, err
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) (model.CartView, error) {
	var view model.CartView
	err := s.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		cart, err := r.Carts().FindOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		if err := r.Carts().DeleteDetail(ctx, cart.ID, productID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return NotFound(constants.CART_ITEM_NOT_FOUND)
			}
			return err
		}
		view, err = cartView(ctx, r.Carts(), userID)
		return err
	})
	return view, err
}

func activeProduct(ctx context.Context, products repository.ProductRepository, id uint) (model.Product, error) {
	product, err := products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Product{}, NotFound(constants.PRODUCT_NOT_FOUND)
	}
	if err != nil {
		return model.Product{}, err
	}
	if !product.IsActive {
		return model.Product{}, BadRequest("Product %q is no longer available", product.Title)
	}
	return product, nil
}
