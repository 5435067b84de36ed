package order

import (
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// 订单领域错误定义
var (
	// ErrOrderNotFound 订单不存在(或不属于当前用户)
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "订单不存在")

	// ErrNotOwner 无权操作此订单
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此订单")

	// ErrInvalidStatusTransition 非法的状态转换
	ErrInvalidStatusTransition = apperrors.New(apperrors.ErrCodeInvalidOrderStatus, "订单状态不允许此操作")

	// ErrDuplicateOrderNo 订单号唯一约束冲突
	ErrDuplicateOrderNo = apperrors.New(apperrors.ErrCodeDuplicateEntry, "订单号重复")

	// ErrEmptyCart 购物车为空
	ErrEmptyCart = apperrors.ErrEmptyCart

	// ErrMissingAddress 缺少收货地址
	ErrMissingAddress = apperrors.ErrMissingAddress
)
