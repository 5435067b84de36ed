package memory

import (
	"context"
	"sort"

	"github.com/xiebiao/bookoutlet/internal/domain/order"
)

type orderRepository struct {
	s *Store
}

func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	defer r.s.lock(ctx)()

	for _, existing := range r.s.data.orders {
		if existing.OrderNo == o.OrderNo {
			return order.ErrDuplicateOrderNo
		}
	}

	o.ID = r.s.data.nextID("orders")
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.s.now()
		o.UpdatedAt = o.CreatedAt
	}
	for i := range o.Items {
		o.Items[i].ID = r.s.data.nextID("order_items")
		o.Items[i].OrderID = o.ID
	}

	stored := *o
	stored.Items = make([]order.OrderItem, len(o.Items))
	for i, item := range o.Items {
		item.BookTitle = ""
		stored.Items[i] = item
	}
	r.s.data.orders[o.ID] = stored
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	defer r.s.lock(ctx)()

	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return r.withTitles(o), nil
}

func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.FindByID(ctx, id)
}

// Update 只写状态与支付标记
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.data.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	stored.Status = o.Status
	stored.PaymentStatus = o.PaymentStatus
	stored.UpdatedAt = o.UpdatedAt
	r.s.data.orders[o.ID] = stored
	return nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	defer r.s.lock(ctx)()

	orders := make([]*order.Order, 0)
	for _, o := range r.s.data.orders {
		if o.UserID == userID {
			orders = append(orders, r.withTitles(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

// withTitles 返回副本并填充书名
func (r *orderRepository) withTitles(o order.Order) *order.Order {
	items := make([]order.OrderItem, len(o.Items))
	for i, item := range o.Items {
		if b, ok := r.s.data.books[item.BookID]; ok {
			item.BookTitle = b.Title
		}
		items[i] = item
	}
	o.Items = items
	return &o
}
