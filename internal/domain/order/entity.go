package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// String 实现Stringer接口
func (s Status) String() string {
	return string(s)
}

// Label 展示用名称
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "待支付"
	case StatusConfirmed:
		return "已确认"
	case StatusShipped:
		return "已发货"
	case StatusDelivered:
		return "已送达"
	case StatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// 合法的状态流转
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Order 订单(聚合根)
// TotalAmount在下单时由购物车合计得出,之后不再变化
type Order struct {
	ID              uint
	OrderNo         string
	UserID          uint
	TotalAmount     decimal.Decimal
	Status          Status
	ShippingAddress string
	PaymentStatus   bool
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem 订单明细
// Price是下单时的单价快照,图书后续调价不影响
type OrderItem struct {
	ID        uint
	OrderID   uint
	BookID    uint
	BookTitle string // 读取时关联图书表填充,只读
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal 明细小计
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewOrder 创建待支付订单
func NewOrder(orderNo string, userID uint, shippingAddress string, items []OrderItem, total decimal.Decimal) *Order {
	now := time.Now()
	return &Order{
		OrderNo:         orderNo,
		UserID:          userID,
		TotalAmount:     total,
		Status:          StatusPending,
		ShippingAddress: shippingAddress,
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// CanTransitionTo 检查是否可以转换到目标状态
func (o *Order) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[o.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target Status) error {
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// ConfirmPayment 标记已支付并确认订单
// 已支付的订单返回alreadyPaid=true且不做任何修改
func (o *Order) ConfirmPayment() (alreadyPaid bool, err error) {
	if o.PaymentStatus {
		return true, nil
	}
	if err := o.TransitionTo(StatusConfirmed); err != nil {
		return false, err
	}
	o.PaymentStatus = true
	return false, nil
}

// ItemsTotal 按明细快照重新计算合计
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.UserID == userID
}
