package handler

import (
	"github.com/gin-gonic/gin"

	appcart "github.com/xiebiao/bookoutlet/internal/application/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/interface/http/dto"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

// CartHandler 购物车HTTP处理器
type CartHandler struct {
	get    *appcart.GetCartUseCase
	add    *appcart.AddToCartUseCase
	update *appcart.UpdateCartItemUseCase
}

// NewCartHandler 创建购物车处理器
func NewCartHandler(get *appcart.GetCartUseCase, add *appcart.AddToCartUseCase, update *appcart.UpdateCartItemUseCase) *CartHandler {
	return &CartHandler{get: get, add: add, update: update}
}

// GetCart 查看购物车(也是结算页的数据)
// @Summary      查看购物车
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=cart.CartResponse}
// @Router       /api/v1/cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	result, err := h.get.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// AddItem 加入购物车,已有条目累加数量
// @Summary      加入购物车
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.AddToCartRequest true "图书与数量"
// @Success      200 {object} response.Response{data=cart.CartResponse}
// @Router       /api/v1/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.add.Execute(c.Request.Context(), appcart.AddToCartRequest{
		UserID:   middleware.MustGetUserID(c),
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateItem 条目增减或删除
// @Summary      修改购物车条目
// @Description  decrease在数量为1时不变
// @Tags         购物车
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "条目ID"
// @Param        request body dto.UpdateCartItemRequest true "操作"
// @Success      200 {object} response.Response{data=cart.CartResponse}
// @Router       /api/v1/cart/items/{id} [patch]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	h.apply(c, cart.Action(req.Action))
}

// RemoveItem 删除条目
// @Summary      删除购物车条目
// @Tags         购物车
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "条目ID"
// @Success      200 {object} response.Response{data=cart.CartResponse}
// @Router       /api/v1/cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.apply(c, cart.ActionRemove)
}

func (h *CartHandler) apply(c *gin.Context, action cart.Action) {
	itemID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.update.Execute(c.Request.Context(), appcart.UpdateCartItemRequest{
		UserID: middleware.MustGetUserID(c),
		ItemID: itemID,
		Action: action,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
