package book

import (
	"context"
	"errors"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
)

// GetBookUseCase 图书详情
// 返回图书、全部评论(最新在前),登录用户额外返回自己的评论
type GetBookUseCase struct {
	bookService book.Service
	reviewRepo  review.Repository
}

// NewGetBookUseCase 创建详情用例
func NewGetBookUseCase(bookService book.Service, reviewRepo review.Repository) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService, reviewRepo: reviewRepo}
}

// BookDetailResponse 详情
type BookDetailResponse struct {
	Book        *BookResponse     `json:"book"`
	Reviews     []*ReviewResponse `json:"reviews"`
	ReviewCount int               `json:"review_count"`
	UserReview  *ReviewResponse   `json:"user_review"`
}

// Execute viewerID为0表示未登录
func (uc *GetBookUseCase) Execute(ctx context.Context, bookID, viewerID uint) (*BookDetailResponse, error) {
	b, err := uc.bookService.GetBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := uc.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	resp := &BookDetailResponse{
		Book:        ToBookResponse(b),
		Reviews:     ToReviewResponses(reviews),
		ReviewCount: len(reviews),
	}

	if viewerID != 0 {
		own, err := uc.reviewRepo.FindByBookAndUser(ctx, bookID, viewerID)
		switch {
		case err == nil:
			resp.UserReview = ToReviewResponse(own)
		case !errors.Is(err, review.ErrReviewNotFound):
			return nil, err
		}
	}
	return resp, nil
}
