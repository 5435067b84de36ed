package order

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/internal/domain/tx"
	"github.com/xiebiao/bookoutlet/pkg/logger"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
	"github.com/xiebiao/bookoutlet/pkg/tracing"
)

// ProcessPaymentUseCase 支付确认
// 没有真实支付网关,只把payment_status置为true并确认订单
// 重复调用返回AlreadyProcessed=true,不修改任何数据
type ProcessPaymentUseCase struct {
	txManager tx.Manager
	orderRepo order.Repository
	events    EventPublisher
}

// NewProcessPaymentUseCase 创建支付用例
func NewProcessPaymentUseCase(txManager tx.Manager, orderRepo order.Repository, events EventPublisher) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{txManager: txManager, orderRepo: orderRepo, events: events}
}

// ProcessPaymentResponse 支付结果
type ProcessPaymentResponse struct {
	Order            *OrderResponse `json:"order"`
	AlreadyProcessed bool           `json:"already_processed"`
}

// Execute 锁定订单行后检查并翻转支付标记
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, orderID, userID uint) (*ProcessPaymentResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ProcessPayment")
	defer span.End()

	var (
		o           *order.Order
		alreadyPaid bool
	)
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		o, err = uc.orderRepo.LockByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !o.IsOwnedBy(userID) {
			return order.ErrNotOwner
		}

		alreadyPaid, err = o.ConfirmPayment()
		if err != nil || alreadyPaid {
			return err
		}
		return uc.orderRepo.Update(ctx, o)
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	log := logger.FromContext(ctx)
	if alreadyPaid {
		metrics.IncCounterVec(metrics.PaymentsProcessedTotal, "already_paid")
		log.Info("订单已支付,忽略重复请求", zap.Uint("order_id", o.ID))
	} else {
		metrics.IncCounterVec(metrics.PaymentsProcessedTotal, "confirmed")
		log.Info("订单支付成功", zap.Uint("order_id", o.ID), zap.String("order_no", o.OrderNo))
		if err := uc.events.OrderPaid(ctx, o); err != nil {
			log.Warn("发布支付事件失败", zap.String("order_no", o.OrderNo), zap.Error(err))
		}
	}

	return &ProcessPaymentResponse{
		Order:            ToOrderResponse(o),
		AlreadyProcessed: alreadyPaid,
	}, nil
}
