package dto

// ReviewRequest 提交评论,评分与内容由领域层校验
type ReviewRequest struct {
	Rating  int    `json:"rating" example:"5"`
	Comment string `json:"comment" example:"A timeless classic."`
}

// AddToCartRequest 加入购物车,quantity缺省为1
type AddToCartRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"omitempty,min=1,max=999" example:"2"`
}

// UpdateCartItemRequest 条目操作
type UpdateCartItemRequest struct {
	Action string `json:"action" binding:"required,oneof=increase decrease remove" example:"increase"`
}

// PlaceOrderRequest 下单
// 地址为空时由用例返回MissingAddress,购物车为空的判断优先
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address" binding:"max=500" example:"1 Main St, Bath"`
}
