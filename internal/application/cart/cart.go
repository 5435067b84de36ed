package cart

import (
	"context"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
)

// CartItemResponse 购物车条目
type CartItemResponse struct {
	ID        uint   `json:"id"`
	BookID    uint   `json:"book_id"`
	Title     string `json:"title"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	AddedAt   string `json:"added_at"`
}

// CartResponse 购物车视图,也用作结算页摘要
type CartResponse struct {
	ID            uint                `json:"id"`
	Items         []*CartItemResponse `json:"items"`
	TotalPrice    string              `json:"total_price"`
	TotalQuantity int                 `json:"total_quantity"`
	ItemCount     int                 `json:"item_count"`
}

// ToCartResponse 实体 → DTO
func ToCartResponse(c *cart.Cart) *CartResponse {
	items := make([]*CartItemResponse, len(c.Items))
	for i, item := range c.Items {
		items[i] = &CartItemResponse{
			ID:        item.ID,
			BookID:    item.BookID,
			Title:     item.BookTitle,
			UnitPrice: item.UnitPrice.StringFixed(2),
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal().StringFixed(2),
			AddedAt:   item.AddedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return &CartResponse{
		ID:            c.ID,
		Items:         items,
		TotalPrice:    c.TotalPrice().StringFixed(2),
		TotalQuantity: c.TotalQuantity(),
		ItemCount:     c.ItemCount(),
	}
}

// GetCartUseCase 查看购物车,没有购物车时返回空视图且不创建
type GetCartUseCase struct {
	cartService cart.Service
}

// NewGetCartUseCase 创建查看用例
func NewGetCartUseCase(cartService cart.Service) *GetCartUseCase {
	return &GetCartUseCase{cartService: cartService}
}

// Execute 执行查看
func (uc *GetCartUseCase) Execute(ctx context.Context, userID uint) (*CartResponse, error) {
	c, err := uc.cartService.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// AddToCartUseCase 加入购物车
// 1. 图书必须存在
// 2. 获取或创建购物车
// 3. 原子累加数量
type AddToCartUseCase struct {
	cartService cart.Service
	bookService book.Service
}

// NewAddToCartUseCase 创建加购用例
func NewAddToCartUseCase(cartService cart.Service, bookService book.Service) *AddToCartUseCase {
	return &AddToCartUseCase{cartService: cartService, bookService: bookService}
}

// AddToCartRequest 加购请求
type AddToCartRequest struct {
	UserID   uint
	BookID   uint
	Quantity int
}

// Execute 返回加购后的购物车
func (uc *AddToCartUseCase) Execute(ctx context.Context, req AddToCartRequest) (*CartResponse, error) {
	if _, err := uc.bookService.GetBookByID(ctx, req.BookID); err != nil {
		return nil, err
	}

	c, err := uc.cartService.GetOrCreate(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if err := uc.cartService.AddItem(ctx, c, req.BookID, req.Quantity); err != nil {
		return nil, err
	}
	metrics.IncCounterVec(metrics.CartOperationsTotal, "add")

	c, err = uc.cartService.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}

// UpdateCartItemUseCase 条目增减与删除
type UpdateCartItemUseCase struct {
	cartService cart.Service
}

// NewUpdateCartItemUseCase 创建条目更新用例
func NewUpdateCartItemUseCase(cartService cart.Service) *UpdateCartItemUseCase {
	return &UpdateCartItemUseCase{cartService: cartService}
}

// UpdateCartItemRequest Action为increase/decrease/remove
type UpdateCartItemRequest struct {
	UserID uint
	ItemID uint
	Action cart.Action
}

// Execute 返回更新后的购物车
func (uc *UpdateCartItemUseCase) Execute(ctx context.Context, req UpdateCartItemRequest) (*CartResponse, error) {
	if err := uc.cartService.UpdateItem(ctx, req.UserID, req.ItemID, req.Action); err != nil {
		return nil, err
	}
	metrics.IncCounterVec(metrics.CartOperationsTotal, string(req.Action))

	c, err := uc.cartService.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(c), nil
}
