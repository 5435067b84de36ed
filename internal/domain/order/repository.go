package order

import (
	"context"
)

// Repository 订单仓储接口
type Repository interface {
	// Create 创建订单及明细,订单号重复时返回ErrDuplicateOrderNo
	Create(ctx context.Context, order *Order) error

	// FindByID 查询订单(含明细),不存在返回ErrOrderNotFound
	FindByID(ctx context.Context, id uint) (*Order, error)

	// LockByID 悲观锁读取订单行,必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Order, error)

	// Update 更新状态与支付标记
	Update(ctx context.Context, order *Order) error

	// ListByUserID 用户订单(含明细),最新在前
	ListByUserID(ctx context.Context, userID uint) ([]*Order, error)
}
