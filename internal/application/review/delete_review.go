package review

import (
	"context"

	appbook "github.com/xiebiao/bookoutlet/internal/application/book"
	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/tx"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
	"github.com/xiebiao/bookoutlet/pkg/tracing"
)

// DeleteReviewUseCase 删除评论,只有作者本人可以删除
type DeleteReviewUseCase struct {
	txManager     tx.Manager
	reviewService review.Service
	reviewRepo    review.Repository
	bookRepo      book.Repository
	cache         appbook.Cache
}

// NewDeleteReviewUseCase 创建删除评论用例
func NewDeleteReviewUseCase(
	txManager tx.Manager,
	reviewService review.Service,
	reviewRepo review.Repository,
	bookRepo book.Repository,
	cache appbook.Cache,
) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{
		txManager:     txManager,
		reviewService: reviewService,
		reviewRepo:    reviewRepo,
		bookRepo:      bookRepo,
		cache:         cache,
	}
}

// DeleteReviewResponse 删除后的图书评分,没有评论时为null
type DeleteReviewResponse struct {
	BookID      uint     `json:"book_id"`
	BookRating  *float64 `json:"book_rating"`
	ReviewCount int64    `json:"review_count"`
}

// Execute 执行删除
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, reviewID, userID uint) (*DeleteReviewResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteReview")
	defer span.End()

	// 先取出所属图书,事务内按图书加锁
	target, err := uc.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	var avg *review.Average
	err = uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.bookRepo.LockByID(ctx, target.BookID); err != nil {
			return err
		}
		if _, err := uc.reviewService.Delete(ctx, reviewID, userID); err != nil {
			return err
		}

		var err error
		avg, err = RecomputeRating(ctx, uc.reviewService, uc.bookRepo, target.BookID)
		return err
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	metrics.IncCounterVec(metrics.ReviewsSubmittedTotal, "deleted")
	appbook.InvalidateStats(ctx, uc.cache)

	return &DeleteReviewResponse{
		BookID:      target.BookID,
		BookRating:  ratingFloat(avg.Value),
		ReviewCount: avg.Count,
	}, nil
}
