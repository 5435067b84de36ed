package book

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
)

// SearchBooksUseCase 图书搜索
type SearchBooksUseCase struct {
	bookService book.Service
}

// NewSearchBooksUseCase 创建搜索用例
func NewSearchBooksUseCase(bookService book.Service) *SearchBooksUseCase {
	return &SearchBooksUseCase{bookService: bookService}
}

// SearchBooksRequest 搜索条件,价格与评分为空表示不限
type SearchBooksRequest struct {
	Query     string
	Genre     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *decimal.Decimal
	SortBy    string
	Page      int
	PageSize  int
}

// SearchBooksResponse 搜索结果,附带可选类型
type SearchBooksResponse struct {
	Items      []*BookResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
	SortBy     string          `json:"sort_by"`
	Genres     []string        `json:"genres"`
}

// Execute 执行搜索
func (uc *SearchBooksUseCase) Execute(ctx context.Context, req SearchBooksRequest) (*SearchBooksResponse, error) {
	params := book.NormalizeSearch(book.SearchParams{
		Query:     req.Query,
		Genre:     req.Genre,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		MinRating: req.MinRating,
		SortBy:    req.SortBy,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})

	books, total, err := uc.bookService.SearchBooks(ctx, params)
	if err != nil {
		return nil, err
	}
	genres, err := uc.bookService.Genres(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*BookResponse, len(books))
	for i, b := range books {
		items[i] = ToBookResponse(b)
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	return &SearchBooksResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
		SortBy:     params.SortBy,
		Genres:     genres,
	}, nil
}
