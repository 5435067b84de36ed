package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookoutlet/internal/domain/cart"
)

type cartRepository struct {
	s *Store
}

func (r *cartRepository) Create(ctx context.Context, c *cart.Cart) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.carts {
		if existing.UserID == c.UserID {
			return cart.ErrDuplicateCart
		}
	}

	c.ID = r.s.data.nextID("carts")
	stored := *c
	stored.Items = nil
	r.s.data.carts[c.ID] = stored
	return nil
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	defer r.s.lock(ctx)()

	for _, c := range r.s.data.carts {
		if c.UserID == userID {
			c.Items = r.items(c.ID)
			return &c, nil
		}
	}
	return nil, cart.ErrCartNotFound
}

func (r *cartRepository) LockByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *cartRepository) FindItem(ctx context.Context, itemID uint) (*cart.CartItem, error) {
	defer r.s.lock(ctx)()

	item, ok := r.s.data.cartItems[itemID]
	if !ok {
		return nil, cart.ErrCartItemNotFound
	}
	item = r.withBook(item)
	return &item, nil
}

func (r *cartRepository) CreateItem(ctx context.Context, item *cart.CartItem) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.cartItems {
		if existing.CartID == item.CartID && existing.BookID == item.BookID {
			return cart.ErrDuplicateCartItem
		}
	}

	item.ID = r.s.data.nextID("cart_items")
	stored := *item
	stored.BookTitle = ""
	stored.UnitPrice = decimal.Zero
	r.s.data.cartItems[item.ID] = stored
	return nil
}

func (r *cartRepository) IncrementItem(ctx context.Context, cartID, bookID uint, delta int) error {
	defer r.s.lock(ctx)()

	for id, item := range r.s.data.cartItems {
		if item.CartID == cartID && item.BookID == bookID {
			item.Quantity += delta
			r.s.data.cartItems[id] = item
			return nil
		}
	}
	return cart.ErrCartItemNotFound
}

func (r *cartRepository) AdjustItem(ctx context.Context, itemID uint, delta int) error {
	defer r.s.lock(ctx)()

	item, ok := r.s.data.cartItems[itemID]
	if !ok || item.Quantity+delta < 1 {
		return nil
	}
	item.Quantity += delta
	r.s.data.cartItems[itemID] = item
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	defer r.s.lock(ctx)()

	delete(r.s.data.cartItems, itemID)
	return nil
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	defer r.s.lock(ctx)()

	for id, item := range r.s.data.cartItems {
		if item.CartID == cartID {
			delete(r.s.data.cartItems, id)
		}
	}
	return nil
}

// items 按加入时间排序,调用方已持有锁
func (r *cartRepository) items(cartID uint) []cart.CartItem {
	items := make([]cart.CartItem, 0)
	for _, item := range r.s.data.cartItems {
		if item.CartID == cartID {
			items = append(items, r.withBook(item))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.Before(items[j].AddedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (r *cartRepository) withBook(item cart.CartItem) cart.CartItem {
	if b, ok := r.s.data.books[item.BookID]; ok {
		item.BookTitle = b.Title
		item.UnitPrice = b.Price
	}
	return item
}
