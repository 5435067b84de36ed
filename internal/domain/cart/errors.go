package cart

import (
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

var (
	// ErrCartNotFound 购物车不存在
	ErrCartNotFound = apperrors.New(apperrors.ErrCodeCartNotFound, "购物车不存在")

	// ErrCartItemNotFound 条目不存在或不属于当前用户
	ErrCartItemNotFound = apperrors.New(apperrors.ErrCodeCartItemNotFound, "购物车条目不存在")

	// ErrDuplicateCart 用户购物车唯一约束冲突
	ErrDuplicateCart = apperrors.New(apperrors.ErrCodeDuplicateEntry, "购物车已存在")

	// ErrDuplicateCartItem (cart, book)唯一约束冲突
	ErrDuplicateCartItem = apperrors.New(apperrors.ErrCodeDuplicateEntry, "购物车条目已存在")
)
