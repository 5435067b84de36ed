// Package messaging 订单领域事件发布
// 事件在事务提交后发布,发布失败不影响已提交的订单
package messaging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/pkg/circuitbreaker"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
)

// Routing keys
const (
	RoutingKeyOrderPlaced = "order.placed"
	RoutingKeyOrderPaid   = "order.paid"
)

// OrderPlaced 下单成功事件
type OrderPlaced struct {
	OrderID     uint      `json:"order_id"`
	OrderNo     string    `json:"order_no"`
	UserID      uint      `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// OrderPaid 支付确认事件
type OrderPaid struct {
	OrderID    uint      `json:"order_id"`
	OrderNo    string    `json:"order_no"`
	UserID     uint      `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 消息发布接口,由mq.Publisher实现
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// OrderEventPublisher 经熔断器发布订单事件
// Broker不可用时熔断,避免每次下单都等待连接超时
type OrderEventPublisher struct {
	pub     Publisher
	breaker *circuitbreaker.CircuitBreaker
	log     *zap.Logger
}

// NewOrderEventPublisher 创建订单事件发布者
func NewOrderEventPublisher(pub Publisher, log *zap.Logger) *OrderEventPublisher {
	breaker := circuitbreaker.New("mq-publisher", circuitbreaker.DefaultConfig())
	breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
		log.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	})
	return &OrderEventPublisher{pub: pub, breaker: breaker, log: log}
}

// OrderPlaced 发布order.placed
func (p *OrderEventPublisher) OrderPlaced(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, RoutingKeyOrderPlaced, OrderPlaced{
		OrderID:     o.ID,
		OrderNo:     o.OrderNo,
		UserID:      o.UserID,
		TotalAmount: o.TotalAmount.StringFixed(2),
		ItemCount:   len(o.Items),
		OccurredAt:  time.Now(),
	})
}

// OrderPaid 发布order.paid
func (p *OrderEventPublisher) OrderPaid(ctx context.Context, o *order.Order) error {
	return p.publish(ctx, RoutingKeyOrderPaid, OrderPaid{
		OrderID:    o.ID,
		OrderNo:    o.OrderNo,
		UserID:     o.UserID,
		OccurredAt: time.Now(),
	})
}

func (p *OrderEventPublisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		return p.pub.Publish(ctx, routingKey, event)
	})

	result := "success"
	switch {
	case errors.Is(err, circuitbreaker.ErrOpenState):
		result = "rejected"
	case err != nil:
		result = "failure"
	}
	metrics.IncCounterVec(metrics.MessagesPublishedTotal, routingKey, result)
	return err
}

// NopPublisher 未启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) OrderPlaced(context.Context, *order.Order) error { return nil }

func (NopPublisher) OrderPaid(context.Context, *order.Order) error { return nil }
