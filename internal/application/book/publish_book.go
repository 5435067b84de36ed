package book

import (
	"context"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
)

// PublishBookUseCase 发布图书
// 1. 领域服务负责全字段校验与持久化
// 2. 发布成功后目录统计失效
type PublishBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewPublishBookUseCase 创建发布用例
func NewPublishBookUseCase(bookService book.Service, cache Cache) *PublishBookUseCase {
	return &PublishBookUseCase{bookService: bookService, cache: cache}
}

// PublishBookRequest 发布请求
type PublishBookRequest struct {
	UserID     uint // 发布者,由认证中间件提供
	Attributes book.Attributes
}

// Execute 执行发布
func (uc *PublishBookUseCase) Execute(ctx context.Context, req PublishBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.PublishBook(ctx, req.UserID, req.Attributes)
	if err != nil {
		return nil, err
	}
	InvalidateStats(ctx, uc.cache)
	return ToBookResponse(b), nil
}

// UpdateBookUseCase 修改图书,只有发布者可以修改
type UpdateBookUseCase struct {
	bookService book.Service
	cache       Cache
}

// NewUpdateBookUseCase 创建修改用例
func NewUpdateBookUseCase(bookService book.Service, cache Cache) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, cache: cache}
}

// UpdateBookRequest 修改请求
type UpdateBookRequest struct {
	UserID     uint
	BookID     uint
	Attributes book.Attributes
}

// Execute 执行修改
func (uc *UpdateBookUseCase) Execute(ctx context.Context, req UpdateBookRequest) (*BookResponse, error) {
	b, err := uc.bookService.UpdateBook(ctx, req.UserID, req.BookID, req.Attributes)
	if err != nil {
		return nil, err
	}
	InvalidateStats(ctx, uc.cache)
	return ToBookResponse(b), nil
}
