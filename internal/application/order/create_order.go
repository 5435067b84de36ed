package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/internal/domain/tx"
	"github.com/xiebiao/bookoutlet/pkg/logger"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
	"github.com/xiebiao/bookoutlet/pkg/tracing"
)

const (
	tracerName = "bookoutlet/order"

	// 订单号冲突时整体重试的次数上限
	maxOrderNoAttempts = 3
)

// PlaceOrderUseCase 购物车 → 订单
// 一个事务内完成:
//  1. SELECT ... FOR UPDATE 锁定购物车行,同一用户并发下单串行
//  2. 按图书当前价格生成明细快照,合计写入total_amount
//  3. 创建订单与明细
//  4. 清空购物车条目
//
// 任一步失败整体回滚,购物车保持原样
type PlaceOrderUseCase struct {
	txManager tx.Manager
	cartRepo  cart.Repository
	orderRepo order.Repository
	events    EventPublisher
	now       func() time.Time
}

// NewPlaceOrderUseCase 创建下单用例
func NewPlaceOrderUseCase(
	txManager tx.Manager,
	cartRepo cart.Repository,
	orderRepo order.Repository,
	events EventPublisher,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		txManager: txManager,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		events:    events,
		now:       time.Now,
	}
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	UserID          uint
	ShippingAddress string
}

// Execute 执行下单
func (uc *PlaceOrderUseCase) Execute(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "PlaceOrder")
	defer span.End()

	log := logger.FromContext(ctx)
	start := time.Now()
	address := strings.TrimSpace(req.ShippingAddress)

	var (
		placed *order.Order
		err    error
	)
	for attempt := 1; attempt <= maxOrderNoAttempts; attempt++ {
		placed, err = uc.placeOnce(ctx, req.UserID, address)
		if !errors.Is(err, order.ErrDuplicateOrderNo) {
			break
		}
		log.Warn("订单号冲突,重新生成", zap.Int("attempt", attempt))
	}
	metrics.ObserveHistogram(metrics.OrderPlacementDuration, time.Since(start).Seconds())

	if err != nil {
		metrics.IncCounterVec(metrics.OrdersPlacedTotal, placeResult(err))
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounterVec(metrics.OrdersPlacedTotal, "success")
	amount, _ := placed.TotalAmount.Float64()
	metrics.ObserveHistogram(metrics.OrderAmount, amount)

	log.Info("订单已创建",
		zap.Uint("order_id", placed.ID),
		zap.String("order_no", placed.OrderNo),
		zap.Uint("user_id", placed.UserID),
		zap.String("total_amount", placed.TotalAmount.StringFixed(2)))

	if err := uc.events.OrderPlaced(ctx, placed); err != nil {
		log.Warn("发布下单事件失败", zap.String("order_no", placed.OrderNo), zap.Error(err))
	}

	return ToOrderResponse(placed), nil
}

func (uc *PlaceOrderUseCase) placeOnce(ctx context.Context, userID uint, address string) (*order.Order, error) {
	var placed *order.Order
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		c, err := uc.cartRepo.LockByUserID(ctx, userID)
		if errors.Is(err, cart.ErrCartNotFound) {
			return order.ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if c.IsEmpty() {
			return order.ErrEmptyCart
		}
		if address == "" {
			return order.ErrMissingAddress
		}

		items := make([]order.OrderItem, len(c.Items))
		for i, line := range c.Items {
			items[i] = order.OrderItem{
				BookID:    line.BookID,
				BookTitle: line.BookTitle,
				Quantity:  line.Quantity,
				Price:     line.UnitPrice,
			}
		}

		o := order.NewOrder(order.GenerateOrderNo(uc.now()), userID, address, items, c.TotalPrice())
		if err := uc.orderRepo.Create(ctx, o); err != nil {
			return err
		}
		if err := uc.cartRepo.ClearItems(ctx, c.ID); err != nil {
			return err
		}

		placed = o
		return nil
	})
	return placed, err
}

func placeResult(err error) string {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, order.ErrMissingAddress):
		return "missing_address"
	default:
		return "failure"
	}
}
