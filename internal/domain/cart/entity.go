package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart 购物车(聚合根),每个用户至多一个
type Cart struct {
	ID        uint
	UserID    uint
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem 购物车条目,(CartID, BookID)唯一
// BookTitle/UnitPrice是读取时关联的图书当前信息,不持久化
type CartItem struct {
	ID        uint
	CartID    uint
	BookID    uint
	Quantity  int
	AddedAt   time.Time
	BookTitle string
	UnitPrice decimal.Decimal
}

// NewCart 创建空购物车
func NewCart(userID uint) *Cart {
	now := time.Now()
	return &Cart{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewCartItem 创建购物车条目
func NewCartItem(cartID, bookID uint, quantity int) *CartItem {
	return &CartItem{
		CartID:   cartID,
		BookID:   bookID,
		Quantity: quantity,
		AddedAt:  time.Now(),
	}
}

// Subtotal 单价x数量,未定价的图书按0计
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalPrice 所有条目小计之和
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// TotalQuantity 所有条目数量之和
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// ItemCount 条目数(不同图书的数量)
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Action 条目操作
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
	ActionRemove   Action = "remove"
)

// Valid 是否为支持的操作
func (a Action) Valid() bool {
	switch a {
	case ActionIncrease, ActionDecrease, ActionRemove:
		return true
	}
	return false
}
