package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

const dateLayout = "2006-01-02"

// BookRequest 发布/修改图书
// 书名、作者、价格等业务规则由领域层一并校验,这里只约束格式
type BookRequest struct {
	Title           string          `json:"title" example:"Pride and Prejudice"`
	Author          string          `json:"author" example:"Jane Austen"`
	Genre           string          `json:"genre" example:"Classic"`
	ISBN            string          `json:"isbn" example:"9780141439518"`
	Description     string          `json:"description" binding:"max=5000"`
	Price           decimal.Decimal `json:"price" swaggertype:"string" example:"12.50"`
	CopiesAvailable int             `json:"copies_available" example:"10"`
	IsFeatured      bool            `json:"is_featured"`
	PublicationDate string          `json:"publication_date" binding:"omitempty,datetime=2006-01-02" example:"1813-01-28"`
	CoverImage      string          `json:"cover_image" example:"pride.jpg"`
}

// Attributes 转换为领域字段
func (r BookRequest) Attributes() book.Attributes {
	attrs := book.Attributes{
		Title:           r.Title,
		Author:          r.Author,
		Genre:           r.Genre,
		ISBN:            r.ISBN,
		Description:     r.Description,
		Price:           r.Price,
		CopiesAvailable: r.CopiesAvailable,
		IsFeatured:      r.IsFeatured,
		CoverImage:      r.CoverImage,
	}
	if r.PublicationDate != "" {
		// 格式已由binding校验
		if d, err := time.Parse(dateLayout, r.PublicationDate); err == nil {
			attrs.PublicationDate = &d
		}
	}
	return attrs
}

// SearchBooksQuery 图书搜索参数
// 未知的sort按newest处理
type SearchBooksQuery struct {
	Query     string `form:"q" binding:"max=100" example:"austen"`
	Genre     string `form:"genre" binding:"max=50" example:"Classic"`
	MinPrice  string `form:"min_price" binding:"omitempty,numeric" example:"5"`
	MaxPrice  string `form:"max_price" binding:"omitempty,numeric" example:"50"`
	MinRating string `form:"min_rating" binding:"omitempty,numeric" example:"4"`
	Sort      string `form:"sort" example:"price_low"`
	Page      int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"12"`
}

// Decimals 解析价格与评分过滤条件
func (q SearchBooksQuery) Decimals() (minPrice, maxPrice, minRating *decimal.Decimal, err error) {
	fields := make(map[string]string)
	parse := func(name, raw string) *decimal.Decimal {
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			fields[name] = "必须是数字"
			return nil
		}
		return &d
	}

	minPrice = parse("min_price", q.MinPrice)
	maxPrice = parse("max_price", q.MaxPrice)
	minRating = parse("min_rating", q.MinRating)
	if len(fields) > 0 {
		return nil, nil, nil, apperrors.NewValidation(fields)
	}
	return minPrice, maxPrice, minRating, nil
}
