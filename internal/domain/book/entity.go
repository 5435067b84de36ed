package book

import (
	"time"

	"github.com/shopspring/decimal"
)

// Book 图书实体(聚合根)
// 1. Price使用decimal,对应数据库decimal(8,2),未定价按0处理
// 2. Rating由评论聚合派生,nil表示暂无评分,只有评论用例可以写
// 3. CreatedBy为发布者,用户删除后置空
type Book struct {
	ID              uint
	Title           string
	Author          string
	Genre           string
	ISBN            string
	Description     string
	Price           decimal.Decimal
	Rating          *decimal.Decimal
	CopiesAvailable int
	IsFeatured      bool
	PublicationDate *time.Time
	CoverImage      string
	CreatedBy       *uint
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Attributes 可由用户写入的图书字段
type Attributes struct {
	Title           string
	Author          string
	Genre           string
	ISBN            string
	Description     string
	Price           decimal.Decimal
	CopiesAvailable int
	IsFeatured      bool
	PublicationDate *time.Time
	CoverImage      string
}

// NewBook 创建新图书(工厂方法),校验由调用方执行
func NewBook(attrs Attributes, createdBy uint) *Book {
	now := time.Now()
	b := &Book{
		CreatedAt: now,
		UpdatedAt: now,
	}
	if createdBy != 0 {
		owner := createdBy
		b.CreatedBy = &owner
	}
	b.apply(attrs)
	return b
}

// UpdateInfo 覆盖可写字段,Rating不受影响
func (b *Book) UpdateInfo(attrs Attributes) {
	b.apply(attrs)
	b.UpdatedAt = time.Now()
}

func (b *Book) apply(attrs Attributes) {
	b.Title = attrs.Title
	b.Author = attrs.Author
	b.Genre = attrs.Genre
	b.ISBN = attrs.ISBN
	b.Description = attrs.Description
	b.Price = attrs.Price
	b.CopiesAvailable = attrs.CopiesAvailable
	b.IsFeatured = attrs.IsFeatured
	b.PublicationDate = attrs.PublicationDate
	b.CoverImage = attrs.CoverImage
}

// SetRating 写入派生评分,nil表示清空
func (b *Book) SetRating(rating *decimal.Decimal) {
	b.Rating = rating
	b.UpdatedAt = time.Now()
}

// IsOwnedBy 检查图书是否由指定用户发布
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.CreatedBy != nil && *b.CreatedBy == userID
}

// CoverURL 封面地址,没有封面时返回默认图
func (b *Book) CoverURL() string {
	if b.CoverImage != "" {
		return "/static/images/book_covers/" + b.CoverImage
	}
	return "/static/images/book_covers/default_cover.jpg"
}

// RatingFloat 评分的浮点表示,用于展示
func (b *Book) RatingFloat() *float64 {
	if b.Rating == nil {
		return nil
	}
	f, _ := b.Rating.Float64()
	return &f
}
