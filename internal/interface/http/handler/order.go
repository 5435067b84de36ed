package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookoutlet/internal/application/order"
	"github.com/xiebiao/bookoutlet/internal/interface/http/dto"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	place *apporder.PlaceOrderUseCase
	pay   *apporder.ProcessPaymentUseCase
	list  *apporder.ListOrdersUseCase
	get   *apporder.GetOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	place *apporder.PlaceOrderUseCase,
	pay *apporder.ProcessPaymentUseCase,
	list *apporder.ListOrdersUseCase,
	get *apporder.GetOrderUseCase,
) *OrderHandler {
	return &OrderHandler{place: place, pay: pay, list: list, get: get}
}

// PlaceOrder 购物车下单
// @Summary      下单
// @Description  把购物车整体转为订单并清空购物车,单价按下单时快照
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PlaceOrderRequest true "收货地址"
// @Success      200 {object} response.Response{data=order.OrderResponse}
// @Failure      200 {object} response.Response "40010 购物车为空 / 40011 缺少收货地址"
// @Router       /api/v1/orders [post]
//
// 下单在一个事务内完成:
// 1. SELECT ... FOR UPDATE锁定购物车,同一用户的并发下单串行化
// 2. 按当前价格生成明细快照并计算合计
// 3. 写入订单与明细,清空购物车
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	// 空请求体按未填地址处理
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.place.Execute(c.Request.Context(), apporder.PlaceOrderRequest{
		UserID:          middleware.MustGetUserID(c),
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListOrders 我的订单,最新在前
// @Summary      订单列表
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]order.OrderResponse}
// @Router       /api/v1/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	result, err := h.list.Execute(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetOrder 订单详情,他人的订单按不存在处理
// @Summary      订单详情
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=order.OrderResponse}
// @Router       /api/v1/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.get.Execute(c.Request.Context(), orderID, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ProcessPayment 支付确认,重复调用返回already_processed=true
// @Summary      支付订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=order.ProcessPaymentResponse}
// @Router       /api/v1/orders/{id}/payment [post]
func (h *OrderHandler) ProcessPayment(c *gin.Context) {
	orderID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.pay.Execute(c.Request.Context(), orderID, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
