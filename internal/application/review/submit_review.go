package review

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookoutlet/internal/application/book"
	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/tx"
	"github.com/xiebiao/bookoutlet/pkg/logger"
	"github.com/xiebiao/bookoutlet/pkg/metrics"
	"github.com/xiebiao/bookoutlet/pkg/tracing"
)

const tracerName = "bookoutlet/review"

// SubmitReviewUseCase 提交评论
// 一个事务内完成:
//  1. 锁定图书行,同一本书的评论写入串行化
//  2. 按(book, user)写入或更新评论
//  3. 重新计算图书评分
type SubmitReviewUseCase struct {
	txManager     tx.Manager
	reviewService review.Service
	bookRepo      book.Repository
	cache         appbook.Cache
}

// NewSubmitReviewUseCase 创建提交评论用例
func NewSubmitReviewUseCase(
	txManager tx.Manager,
	reviewService review.Service,
	bookRepo book.Repository,
	cache appbook.Cache,
) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{
		txManager:     txManager,
		reviewService: reviewService,
		bookRepo:      bookRepo,
		cache:         cache,
	}
}

// SubmitReviewRequest 提交评论请求
type SubmitReviewRequest struct {
	BookID  uint
	UserID  uint
	Rating  int
	Comment string
}

// SubmitReviewResponse Created区分新建与更新
type SubmitReviewResponse struct {
	Review      *appbook.ReviewResponse `json:"review"`
	Created     bool                    `json:"created"`
	BookRating  *float64                `json:"book_rating"`
	ReviewCount int64                   `json:"review_count"`
}

// Execute 执行提交
func (uc *SubmitReviewUseCase) Execute(ctx context.Context, req SubmitReviewRequest) (*SubmitReviewResponse, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "SubmitReview")
	defer span.End()

	if err := review.Validate(req.Rating, req.Comment); err != nil {
		return nil, err
	}

	var (
		saved   *review.Review
		created bool
		avg     *review.Average
	)
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		if _, err := uc.bookRepo.LockByID(ctx, req.BookID); err != nil {
			return err
		}

		var err error
		saved, created, err = uc.reviewService.Upsert(ctx, req.BookID, req.UserID, req.Rating, req.Comment)
		if err != nil {
			return err
		}

		avg, err = RecomputeRating(ctx, uc.reviewService, uc.bookRepo, req.BookID)
		return err
	})
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	result := "updated"
	if created {
		result = "created"
	}
	metrics.IncCounterVec(metrics.ReviewsSubmittedTotal, result)
	appbook.InvalidateStats(ctx, uc.cache)

	logger.FromContext(ctx).Info("评论已保存",
		zap.Uint("book_id", req.BookID),
		zap.Uint("user_id", req.UserID),
		zap.Bool("created", created))

	return &SubmitReviewResponse{
		Review:      appbook.ToReviewResponse(saved),
		Created:     created,
		BookRating:  ratingFloat(avg.Value),
		ReviewCount: avg.Count,
	}, nil
}

// RecomputeRating 由评论表重新计算图书评分并写回,必须在事务内调用
func RecomputeRating(ctx context.Context, reviews review.Service, books book.Repository, bookID uint) (*review.Average, error) {
	avg, err := reviews.AverageFor(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if err := books.UpdateRating(ctx, bookID, avg.Value); err != nil {
		return nil, err
	}
	return avg, nil
}

func ratingFloat(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return &f
}
