package mysql

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// cartItemRow 条目投影,关联图书当前书名与价格
type cartItemRow struct {
	CartItemModel
	BookTitle string
	UnitPrice decimal.Decimal
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) cart.Repository {
	return &cartRepository{db: db}
}

// Create 创建购物车,user_id唯一
func (r *cartRepository) Create(ctx context.Context, c *cart.Cart) error {
	model := &CartModel{
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return cart.ErrDuplicateCart
		}
		return apperrors.Wrap(err, "创建购物车失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByUserID 查询用户购物车及条目
func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	return r.findByUser(ctx, dbFromContext(ctx, r.db), userID)
}

// LockByUserID SELECT ... FOR UPDATE
// 锁住购物车行,同一用户的并发下单串行执行
func (r *cartRepository) LockByUserID(ctx context.Context, userID uint) (*cart.Cart, error) {
	db := dbFromContext(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"})
	return r.findByUser(ctx, db, userID)
}

func (r *cartRepository) findByUser(ctx context.Context, db *gorm.DB, userID uint) (*cart.Cart, error) {
	var model CartModel
	if err := db.Where("user_id = ?", userID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车失败")
	}

	var rows []cartItemRow
	err := r.itemQuery(ctx).
		Where("cart_items.cart_id = ?", model.ID).
		Order("cart_items.added_at ASC").
		Order("cart_items.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询购物车条目失败")
	}

	c := &cart.Cart{
		ID:        model.ID,
		UserID:    model.UserID,
		Items:     make([]cart.CartItem, len(rows)),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	for i := range rows {
		c.Items[i] = toCartItemEntity(&rows[i])
	}
	return c, nil
}

// FindItem 查询单个条目
func (r *cartRepository) FindItem(ctx context.Context, itemID uint) (*cart.CartItem, error) {
	var row cartItemRow
	err := r.itemQuery(ctx).Where("cart_items.id = ?", itemID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrCartItemNotFound
		}
		return nil, apperrors.Wrap(err, "查询购物车条目失败")
	}
	item := toCartItemEntity(&row)
	return &item, nil
}

// CreateItem 新增条目,(cart_id, book_id)唯一
func (r *cartRepository) CreateItem(ctx context.Context, item *cart.CartItem) error {
	model := &CartItemModel{
		CartID:   item.CartID,
		BookID:   item.BookID,
		Quantity: item.Quantity,
		AddedAt:  item.AddedAt,
	}
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return cart.ErrDuplicateCartItem
		}
		return apperrors.Wrap(err, "添加购物车条目失败")
	}
	item.ID = model.ID
	return nil
}

// IncrementItem UPDATE cart_items SET quantity = quantity + ?
// 单条语句累加,并发加购不会丢失更新
func (r *cartRepository) IncrementItem(ctx context.Context, cartID, bookID uint, delta int) error {
	result := dbFromContext(ctx, r.db).Model(&CartItemModel{}).
		Where("cart_id = ? AND book_id = ?", cartID, bookID).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新购物车条目失败")
	}
	if result.RowsAffected == 0 {
		return cart.ErrCartItemNotFound
	}
	return nil
}

// AdjustItem 调整后数量小于1时不更新
func (r *cartRepository) AdjustItem(ctx context.Context, itemID uint, delta int) error {
	err := dbFromContext(ctx, r.db).Model(&CartItemModel{}).
		Where("id = ? AND quantity + ? >= 1", itemID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
	if err != nil {
		return apperrors.Wrap(err, "更新购物车条目失败")
	}
	return nil
}

// DeleteItem 删除条目
func (r *cartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	if err := dbFromContext(ctx, r.db).Delete(&CartItemModel{}, itemID).Error; err != nil {
		return apperrors.Wrap(err, "删除购物车条目失败")
	}
	return nil
}

// ClearItems 清空条目,购物车行保留
func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	err := dbFromContext(ctx, r.db).
		Where("cart_id = ?", cartID).
		Delete(&CartItemModel{}).Error
	if err != nil {
		return apperrors.Wrap(err, "清空购物车失败")
	}
	return nil
}

func (r *cartRepository) itemQuery(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).
		Table("cart_items").
		Select("cart_items.*, books.title AS book_title, COALESCE(books.price, 0) AS unit_price").
		Joins("LEFT JOIN books ON books.id = cart_items.book_id")
}

func toCartItemEntity(row *cartItemRow) cart.CartItem {
	return cart.CartItem{
		ID:        row.ID,
		CartID:    row.CartID,
		BookID:    row.BookID,
		Quantity:  row.Quantity,
		AddedAt:   row.AddedAt,
		BookTitle: row.BookTitle,
		UnitPrice: row.UnitPrice,
	}
}
