package review

import (
	"context"
)

// Repository 评论仓储接口
type Repository interface {
	// Create 创建评论,违反(book_id, user_id)唯一约束时返回ErrDuplicateReview
	Create(ctx context.Context, review *Review) error

	// Update 更新评分和内容
	Update(ctx context.Context, review *Review) error

	// Delete 删除评论
	Delete(ctx context.Context, id uint) error

	// FindByID 不存在返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// FindByBookAndUser 不存在返回ErrReviewNotFound
	FindByBookAndUser(ctx context.Context, bookID, userID uint) (*Review, error)

	// ListByBook 图书的全部评论,最新在前
	ListByBook(ctx context.Context, bookID uint) ([]*Review, error)

	// ListByUser 用户的全部评论,最新在前
	ListByUser(ctx context.Context, userID uint) ([]*Review, error)

	// RatingStats 图书评分总和与条数
	RatingStats(ctx context.Context, bookID uint) (sum int64, count int64, err error)

	// Count 评论总数
	Count(ctx context.Context) (int64, error)
}
