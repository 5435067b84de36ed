package cart

import (
	"context"
)

// Repository 购物车仓储接口
// 读取购物车时一并加载条目,并关联图书当前书名与价格
type Repository interface {
	// Create 创建购物车,用户已有购物车时返回ErrDuplicateCart
	Create(ctx context.Context, cart *Cart) error

	// FindByUserID 不存在返回ErrCartNotFound
	FindByUserID(ctx context.Context, userID uint) (*Cart, error)

	// LockByUserID 悲观锁读取购物车行(SELECT ... FOR UPDATE),必须在事务内调用
	LockByUserID(ctx context.Context, userID uint) (*Cart, error)

	// FindItem 不存在返回ErrCartItemNotFound
	FindItem(ctx context.Context, itemID uint) (*CartItem, error)

	// CreateItem 创建条目,(cart, book)已存在时返回ErrDuplicateCartItem
	CreateItem(ctx context.Context, item *CartItem) error

	// IncrementItem 原子执行 quantity = quantity + delta,条目不存在返回ErrCartItemNotFound
	IncrementItem(ctx context.Context, cartID, bookID uint, delta int) error

	// AdjustItem 原子调整数量,仅当调整后数量>=1时生效
	AdjustItem(ctx context.Context, itemID uint, delta int) error

	// DeleteItem 删除条目
	DeleteItem(ctx context.Context, itemID uint) error

	// ClearItems 清空购物车全部条目
	ClearItems(ctx context.Context, cartID uint) error
}
