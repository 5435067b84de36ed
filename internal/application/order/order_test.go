package order

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

type recordingEvents struct {
	mu     sync.Mutex
	placed []string
	paid   []string
}

func (e *recordingEvents) OrderPlaced(_ context.Context, o *order.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.placed = append(e.placed, o.OrderNo)
	return nil
}

func (e *recordingEvents) OrderPaid(_ context.Context, o *order.Order) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paid = append(e.paid, o.OrderNo)
	return nil
}

var errClearFailed = errors.New("clear cart items failed")

// failingClearCarts 清空购物车时失败
type failingClearCarts struct {
	cart.Repository
}

func (failingClearCarts) ClearItems(context.Context, uint) error {
	return errClearFailed
}

// collidingOrders 前failures次创建订单返回订单号冲突
type collidingOrders struct {
	order.Repository
	failures int
	orderNos []string
}

func (r *collidingOrders) Create(ctx context.Context, o *order.Order) error {
	r.orderNos = append(r.orderNos, o.OrderNo)
	if len(r.orderNos) <= r.failures {
		return order.ErrDuplicateOrderNo
	}
	return r.Repository.Create(ctx, o)
}

type fixture struct {
	store  *memory.Store
	events *recordingEvents
	carts  cart.Service
	place  *PlaceOrderUseCase
	pay    *ProcessPaymentUseCase
	list   *ListOrdersUseCase
	get    *GetOrderUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	events := &recordingEvents{}
	return &fixture{
		store:  store,
		events: events,
		carts:  cart.NewService(store.Carts()),
		place:  NewPlaceOrderUseCase(store, store.Carts(), store.Orders(), events),
		pay:    NewProcessPaymentUseCase(store, store.Orders(), events),
		list:   NewListOrdersUseCase(store.Orders()),
		get:    NewGetOrderUseCase(store.Orders()),
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

func (f *fixture) addToCart(t *testing.T, userID, bookID uint, qty int) {
	t.Helper()
	ctx := context.Background()
	c, err := f.carts.GetOrCreate(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, f.carts.AddItem(ctx, c, bookID, qty))
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bookA := f.book(t, "Book A", "100")
	bookB := f.book(t, "Book B", "50")
	f.addToCart(t, 1, bookA.ID, 2)
	f.addToCart(t, 1, bookB.ID, 1)

	resp, err := f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
	require.NoError(t, err)

	assert.Equal(t, "250.00", resp.TotalAmount)
	assert.Equal(t, string(order.StatusPending), resp.Status)
	assert.False(t, resp.PaymentStatus)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "100.00", resp.Items[0].Price)
	assert.Equal(t, "50.00", resp.Items[1].Price)
	assert.Regexp(t, `^ORD\d{14}[0-9A-F]{12}$`, resp.OrderNo)

	c, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	// 调价不影响已下单的价格快照
	bookA.Price = decimal.RequireFromString("120")
	require.NoError(t, f.store.Books().Update(ctx, bookA))

	got, err := f.get.Execute(ctx, resp.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Items[0].Price)
	assert.Equal(t, "250.00", got.TotalAmount)

	assert.Equal(t, []string{resp.OrderNo}, f.events.placed)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("没有购物车", func(t *testing.T) {
		_, err := f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
		assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	})

	t.Run("购物车为空", func(t *testing.T) {
		_, err := f.carts.GetOrCreate(ctx, 1)
		require.NoError(t, err)
		_, err = f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
		assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
	})

	orders, err := f.list.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.Empty(t, f.events.placed)
}

func TestPlaceOrderMissingAddressKeepsCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	f.addToCart(t, 1, b.ID, 1)

	_, err := f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "   "})
	assert.ErrorIs(t, err, apperrors.ErrMissingAddress)

	c, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, c.Items, 1)
}

func TestPlaceOrderConcurrentSameCart(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	f.addToCart(t, 1, b.ID, 1)

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
		}(i)
	}
	wg.Wait()

	success := 0
	for _, err := range errs {
		if err == nil {
			success++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
		}
	}
	assert.Equal(t, 1, success)
}

func TestProcessPaymentIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	f.addToCart(t, 1, b.ID, 1)
	placed, err := f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
	require.NoError(t, err)

	first, err := f.pay.Execute(ctx, placed.ID, 1)
	require.NoError(t, err)
	assert.False(t, first.AlreadyProcessed)
	assert.True(t, first.Order.PaymentStatus)
	assert.Equal(t, string(order.StatusConfirmed), first.Order.Status)

	second, err := f.pay.Execute(ctx, placed.ID, 1)
	require.NoError(t, err)
	assert.True(t, second.AlreadyProcessed)
	assert.True(t, second.Order.PaymentStatus)
	assert.Equal(t, string(order.StatusConfirmed), second.Order.Status)

	assert.Len(t, f.events.paid, 1)
}

func TestProcessPaymentOwnership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	f.addToCart(t, 1, b.ID, 1)
	placed, err := f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
	require.NoError(t, err)

	_, err = f.pay.Execute(ctx, placed.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.pay.Execute(ctx, 999, 1)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)

	got, err := f.get.Execute(ctx, placed.ID, 1)
	require.NoError(t, err)
	assert.False(t, got.PaymentStatus)
}

func TestGetOrderHidesOtherUsersOrders(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	f.addToCart(t, 1, b.ID, 1)
	placed, err := f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
	require.NoError(t, err)

	_, err = f.get.Execute(ctx, placed.ID, 2)
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestListOrdersNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")

	var ids []uint
	for i := 0; i < 3; i++ {
		f.addToCart(t, 1, b.ID, 1)
		resp, err := f.place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	list, err := f.list.Execute(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)
}

func TestPlaceOrderRollsBackWhenClearFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	b := f.book(t, "Emma", "10")
	f.addToCart(t, 1, b.ID, 2)

	place := NewPlaceOrderUseCase(f.store, failingClearCarts{f.store.Carts()}, f.store.Orders(), f.events)
	_, err := place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
	assert.ErrorIs(t, err, errClearFailed)

	orders, err := f.list.Execute(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, orders, "订单随事务回滚")

	c, err := f.carts.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Empty(t, f.events.placed)
}

func TestPlaceOrderRetriesDuplicateOrderNo(t *testing.T) {
	t.Run("第二次成功", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		b := f.book(t, "Emma", "10")
		f.addToCart(t, 1, b.ID, 1)

		orders := &collidingOrders{Repository: f.store.Orders(), failures: 1}
		place := NewPlaceOrderUseCase(f.store, f.store.Carts(), orders, f.events)
		resp, err := place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
		require.NoError(t, err)

		require.Len(t, orders.orderNos, 2)
		assert.NotEqual(t, orders.orderNos[0], orders.orderNos[1], "重试时重新生成订单号")
		assert.Equal(t, orders.orderNos[1], resp.OrderNo)

		list, err := f.list.Execute(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		c, err := f.carts.Get(ctx, 1)
		require.NoError(t, err)
		assert.True(t, c.IsEmpty())
	})

	t.Run("三次均冲突", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()
		b := f.book(t, "Emma", "10")
		f.addToCart(t, 1, b.ID, 1)

		orders := &collidingOrders{Repository: f.store.Orders(), failures: 100}
		place := NewPlaceOrderUseCase(f.store, f.store.Carts(), orders, f.events)
		_, err := place.Execute(ctx, PlaceOrderRequest{UserID: 1, ShippingAddress: "X"})
		assert.ErrorIs(t, err, order.ErrDuplicateOrderNo)
		assert.Len(t, orders.orderNos, maxOrderNoAttempts)

		list, err := f.list.Execute(ctx, 1)
		require.NoError(t, err)
		assert.Empty(t, list)

		c, err := f.carts.Get(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, c.Items, 1)
		assert.Empty(t, f.events.placed)
	})
}
