package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookoutlet/internal/domain/order"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// orderRepository 订单仓储实现(MySQL)
// Order和OrderItem是聚合关系,一起保存,查询时Preload明细
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建订单及明细
// order_no唯一索引冲突转换为ErrDuplicateOrderNo,由调用方换号重试
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return order.ErrDuplicateOrderNo
		}
		return apperrors.Wrap(err, "创建订单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt
	for i := range o.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.ID
	}
	return nil
}

// FindByID 查询订单(含明细)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	return r.findOne(ctx, dbFromContext(ctx, r.db), id)
}

// LockByID SELECT ... FOR UPDATE
// 支付时锁住订单行,并发重复支付只有一个生效
func (r *orderRepository) LockByID(ctx context.Context, id uint) (*order.Order, error) {
	db := dbFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findOne(ctx, db, id)
}

func (r *orderRepository) findOne(ctx context.Context, db *gorm.DB, id uint) (*order.Order, error) {
	var model OrderModel
	if err := db.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询订单失败")
	}

	orders, err := r.withItems(ctx, []OrderModel{model})
	if err != nil {
		return nil, err
	}
	return orders[0], nil
}

// Update 只更新状态与支付标记,明细不可变
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	result := dbFromContext(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(map[string]interface{}{
			"status":         string(o.Status),
			"payment_status": o.PaymentStatus,
			"updated_at":     o.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新订单失败")
	}
	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}
	return nil
}

// ListByUserID 用户订单,最新在前
func (r *orderRepository) ListByUserID(ctx context.Context, userID uint) ([]*order.Order, error) {
	var models []OrderModel
	err := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询订单列表失败")
	}
	return r.withItems(ctx, models)
}

// withItems 批量加载明细并关联书名
// 1. SELECT * FROM order_items WHERE order_id IN (?)
// 2. SELECT id, title FROM books WHERE id IN (?)
func (r *orderRepository) withItems(ctx context.Context, models []OrderModel) ([]*order.Order, error) {
	orders := make([]*order.Order, len(models))
	if len(models) == 0 {
		return orders, nil
	}

	orderIDs := make([]uint, len(models))
	for i := range models {
		orderIDs[i] = models[i].ID
	}

	db := dbFromContext(ctx, r.db)
	var items []OrderItemModel
	if err := db.Where("order_id IN ?", orderIDs).Order("id ASC").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询订单明细失败")
	}

	titles, err := r.bookTitles(ctx, items)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[uint][]OrderItemModel, len(models))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}

	for i := range models {
		models[i].Items = byOrder[models[i].ID]
		orders[i] = toOrderEntity(&models[i], titles)
	}
	return orders, nil
}

func (r *orderRepository) bookTitles(ctx context.Context, items []OrderItemModel) (map[uint]string, error) {
	titles := make(map[uint]string)
	if len(items) == 0 {
		return titles, nil
	}

	seen := make(map[uint]struct{}, len(items))
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.BookID]; ok {
			continue
		}
		seen[item.BookID] = struct{}{}
		ids = append(ids, item.BookID)
	}

	var books []BookModel
	err := dbFromContext(ctx, r.db).
		Select("id", "title").
		Where("id IN ?", ids).
		Find(&books).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	for _, b := range books {
		titles[b.ID] = b.Title
	}
	return titles, nil
}

// =========================================
// 模型转换
// =========================================

func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			BookID:   item.BookID,
			Quantity: item.Quantity,
			Price:    item.Price,
		}
	}

	return &OrderModel{
		ID:              o.ID,
		OrderNo:         o.OrderNo,
		UserID:          o.UserID,
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		ShippingAddress: o.ShippingAddress,
		PaymentStatus:   o.PaymentStatus,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderEntity(model *OrderModel, titles map[uint]string) *order.Order {
	items := make([]order.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = order.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			BookID:    item.BookID,
			BookTitle: titles[item.BookID],
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return &order.Order{
		ID:              model.ID,
		OrderNo:         model.OrderNo,
		UserID:          model.UserID,
		TotalAmount:     model.TotalAmount,
		Status:          order.Status(model.Status),
		ShippingAddress: model.ShippingAddress,
		PaymentStatus:   model.PaymentStatus,
		Items:           items,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}
