package order

import (
	"context"

	"github.com/xiebiao/bookoutlet/internal/domain/order"
)

// ListOrdersUseCase 我的订单,最新在前
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建订单列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// Execute 执行查询
func (uc *ListOrdersUseCase) Execute(ctx context.Context, userID uint) ([]*OrderResponse, error) {
	orders, err := uc.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		list[i] = ToOrderResponse(o)
	}
	return list, nil
}

// GetOrderUseCase 订单详情
// 他人订单按不存在处理,不暴露订单是否存在
type GetOrderUseCase struct {
	orderRepo order.Repository
}

// NewGetOrderUseCase 创建订单详情用例
func NewGetOrderUseCase(orderRepo order.Repository) *GetOrderUseCase {
	return &GetOrderUseCase{orderRepo: orderRepo}
}

// Execute 执行查询
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, userID uint) (*OrderResponse, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(userID) {
		return nil, order.ErrOrderNotFound
	}
	return ToOrderResponse(o), nil
}
