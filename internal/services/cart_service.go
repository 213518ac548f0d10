package services

import (
	"database/sql"
	"errors"

	"growlokal/internal/repos"
)

var (
	ErrOutOfStock = errors.New("product is out of stock")
	ErrNotInCart  = errors.New("product is not in the cart")
	ErrBadQty     = errors.New("quantity must be at least 1")
)

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods}
}

// CartView is the authoritative post-mutation cart the server returns for
// every read and mutation; clients never compute subtotal except for
// optimistic display.
type CartView struct {
	Items    []repos.CartItemRow `json:"items"`
	Subtotal float64             `json:"subtotal"`
}

func (s *CartService) View(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

func (s *CartService) view(cartID string) (CartView, error) {
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return CartView{}, err
	}
	subtotal := 0.0
	for _, it := range items {
		subtotal += it.Price * float64(it.Qty)
	}
	return CartView{Items: items, Subtotal: Round2(subtotal)}, nil
}

// Add appends or increments a line, capping the resulting quantity at the
// product's current stock. Adding to a sold-out product is an error.
func (s *CartService) Add(sessionID, productID string, qty int) (CartView, error) {
	if qty < 1 {
		qty = 1
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	p, err := s.Prods.Get(productID)
	if err != nil || !p.Active {
		if err == nil || err == sql.ErrNoRows {
			return CartView{}, ErrNotInCart
		}
		return CartView{}, err
	}
	if p.Stock < 1 {
		return CartView{}, ErrOutOfStock
	}
	have, err := s.Carts.ItemQty(cartID, productID)
	if err != nil {
		return CartView{}, err
	}
	if have >= p.Stock {
		return CartView{}, ErrOutOfStock
	}
	if have+qty > p.Stock {
		qty = p.Stock - have // cap, never exceed stock
	}
	if err := s.Carts.UpsertItem(cartID, productID, qty, p.Price, p.Name, p.ImageURL, p.ArtistName); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

// UpdateQuantity sets an exact line quantity, capped at stock.
func (s *CartService) UpdateQuantity(sessionID, productID string, qty int) (CartView, error) {
	if qty < 1 {
		return CartView{}, ErrBadQty
	}
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	stock, err := s.Prods.Stock(productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return CartView{}, ErrNotInCart
		}
		return CartView{}, err
	}
	if qty > stock {
		qty = stock
	}
	if qty < 1 {
		return CartView{}, ErrOutOfStock
	}
	ok, err := s.Carts.SetQty(cartID, productID, qty)
	if err != nil {
		return CartView{}, err
	}
	if !ok {
		return CartView{}, ErrNotInCart
	}
	return s.view(cartID)
}

func (s *CartService) Remove(sessionID, productID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.RemoveItem(cartID, productID); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}

func (s *CartService) Clear(sessionID string) (CartView, error) {
	cartID, err := s.Carts.EnsureCart(sessionID)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.Clear(cartID); err != nil {
		return CartView{}, err
	}
	return s.view(cartID)
}
