package order

import (
	"context"
	"time"

	"github.com/xiebiao/bookoutlet/internal/domain/order"
)

// EventPublisher 订单事件发布接口
// 由messaging.OrderEventPublisher实现,未启用MQ时为NopPublisher
type EventPublisher interface {
	OrderPlaced(ctx context.Context, o *order.Order) error
	OrderPaid(ctx context.Context, o *order.Order) error
}

// OrderItemResponse 订单明细
type OrderItemResponse struct {
	ID       uint   `json:"id"`
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Subtotal string `json:"subtotal"`
}

// OrderResponse 订单
type OrderResponse struct {
	ID              uint                 `json:"id"`
	OrderNo         string               `json:"order_no"`
	TotalAmount     string               `json:"total_amount"`
	Status          string               `json:"status"`
	StatusLabel     string               `json:"status_label"`
	ShippingAddress string               `json:"shipping_address"`
	PaymentStatus   bool                 `json:"payment_status"`
	Items           []*OrderItemResponse `json:"items"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

// ToOrderResponse 实体 → DTO
func ToOrderResponse(o *order.Order) *OrderResponse {
	items := make([]*OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = &OrderItemResponse{
			ID:       item.ID,
			BookID:   item.BookID,
			Title:    item.BookTitle,
			Quantity: item.Quantity,
			Price:    item.Price.StringFixed(2),
			Subtotal: item.Subtotal().StringFixed(2),
		}
	}
	return &OrderResponse{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		TotalAmount:     o.TotalAmount.StringFixed(2),
		Status:          o.Status.String(),
		StatusLabel:     o.Status.Label(),
		ShippingAddress: o.ShippingAddress,
		PaymentStatus:   o.PaymentStatus,
		Items:           items,
		CreatedAt:       o.CreatedAt.Format(time.DateTime),
		UpdatedAt:       o.UpdatedAt.Format(time.DateTime),
	}
}
