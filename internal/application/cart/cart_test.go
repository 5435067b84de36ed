package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

type fixture struct {
	store  *memory.Store
	get    *GetCartUseCase
	add    *AddToCartUseCase
	update *UpdateCartItemUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	carts := cart.NewService(store.Carts())
	books := book.NewService(store.Books())
	return &fixture{
		store:  store,
		get:    NewGetCartUseCase(carts),
		add:    NewAddToCartUseCase(carts, books),
		update: NewUpdateCartItemUseCase(carts),
	}
}

func (f *fixture) book(t *testing.T, title, price string) *book.Book {
	t.Helper()
	b := book.NewBook(book.Attributes{
		Title:  title,
		Author: "Jane Austen",
		Price:  decimal.RequireFromString(price),
	}, 0)
	require.NoError(t, f.store.Books().Create(context.Background(), b))
	return b
}

func (f *fixture) addItem(t *testing.T, userID, bookID uint, qty int) *CartResponse {
	t.Helper()
	resp, err := f.add.Execute(context.Background(), AddToCartRequest{UserID: userID, BookID: bookID, Quantity: qty})
	require.NoError(t, err)
	return resp
}

func TestAddToCartAccumulates(t *testing.T) {
	f := newFixture()
	b := f.book(t, "Emma", "12.50")

	f.addItem(t, 1, b.ID, 2)
	resp := f.addItem(t, 1, b.ID, 3)

	require.Len(t, resp.Items, 1, "同一本书只有一条记录")
	assert.Equal(t, 5, resp.Items[0].Quantity)
	assert.Equal(t, "62.50", resp.Items[0].Subtotal)
	assert.Equal(t, "62.50", resp.TotalPrice)
	assert.Equal(t, 5, resp.TotalQuantity)
	assert.Equal(t, 1, resp.ItemCount)
}

func TestAddToCartConcurrent(t *testing.T) {
	f := newFixture()
	b := f.book(t, "Emma", "1")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.add.Execute(context.Background(), AddToCartRequest{UserID: 1, BookID: b.ID, Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	resp, err := f.get.Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 10, resp.Items[0].Quantity)
}

func TestAddToCartRejects(t *testing.T) {
	f := newFixture()
	b := f.book(t, "Emma", "1")

	_, err := f.add.Execute(context.Background(), AddToCartRequest{UserID: 1, BookID: 999, Quantity: 1})
	assert.ErrorIs(t, err, book.ErrBookNotFound)

	_, err = f.add.Execute(context.Background(), AddToCartRequest{UserID: 1, BookID: b.ID, Quantity: 0})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateCartItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	itemID := f.addItem(t, 1, b.ID, 1).Items[0].ID

	exec := func(action cart.Action) *CartResponse {
		resp, err := f.update.Execute(ctx, UpdateCartItemRequest{UserID: 1, ItemID: itemID, Action: action})
		require.NoError(t, err)
		return resp
	}

	t.Run("数量为1时减少不变", func(t *testing.T) {
		resp := exec(cart.ActionDecrease)
		assert.Equal(t, 1, resp.Items[0].Quantity)
	})

	t.Run("增加与减少", func(t *testing.T) {
		exec(cart.ActionIncrease)
		resp := exec(cart.ActionIncrease)
		assert.Equal(t, 3, resp.Items[0].Quantity)
		assert.Equal(t, "30.00", resp.TotalPrice)

		resp = exec(cart.ActionDecrease)
		assert.Equal(t, 2, resp.Items[0].Quantity)
	})

	t.Run("删除", func(t *testing.T) {
		resp := exec(cart.ActionRemove)
		assert.Empty(t, resp.Items)
		assert.Equal(t, "0.00", resp.TotalPrice)
	})
}

func TestUpdateCartItemOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	itemID := f.addItem(t, 1, b.ID, 2).Items[0].ID

	_, err := f.update.Execute(ctx, UpdateCartItemRequest{UserID: 2, ItemID: itemID, Action: cart.ActionRemove})
	assert.ErrorIs(t, err, cart.ErrCartItemNotFound, "他人的条目按不存在处理")

	f.addItem(t, 2, b.ID, 1)
	_, err = f.update.Execute(ctx, UpdateCartItemRequest{UserID: 2, ItemID: itemID, Action: cart.ActionIncrease})
	assert.ErrorIs(t, err, cart.ErrCartItemNotFound)

	_, err = f.update.Execute(ctx, UpdateCartItemRequest{UserID: 1, ItemID: itemID, Action: "double"})
	assert.True(t, apperrors.IsValidation(err))

	resp, err := f.get.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Items[0].Quantity)
}

func TestCartTotalsFollowCurrentPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	f.addItem(t, 1, b.ID, 2)

	b.Price = decimal.RequireFromString("15")
	require.NoError(t, f.store.Books().Update(ctx, b))

	resp, err := f.get.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "15.00", resp.Items[0].UnitPrice)
	assert.Equal(t, "30.00", resp.TotalPrice)
}

func TestGetCartWithoutCart(t *testing.T) {
	f := newFixture()
	resp, err := f.get.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
	assert.Equal(t, "0.00", resp.TotalPrice)

	_, err = f.store.Carts().FindByUserID(context.Background(), 1)
	assert.ErrorIs(t, err, cart.ErrCartNotFound, "查看不创建购物车")
}
