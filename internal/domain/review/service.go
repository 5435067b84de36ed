package review

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// Service 评论领域服务
type Service interface {
	// Upsert 按(book, user)写入评论,已存在则更新;返回是否新建
	Upsert(ctx context.Context, bookID, userID uint, rating int, comment string) (*Review, bool, error)

	// Delete 删除评论,只有作者本人可以删除;返回被删除评论
	Delete(ctx context.Context, reviewID, userID uint) (*Review, error)

	// AverageFor 重新统计图书平均分,没有评论返回nil
	AverageFor(ctx context.Context, bookID uint) (*Average, error)
}

// Average 统计结果,Value为nil表示没有评论
type Average struct {
	Count int64
	Value *decimal.Decimal
}

type service struct {
	repo Repository
}

// NewService 创建评论领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Upsert 唯一约束是最终依据:
// 1. 先查已有评论,有则更新
// 2. 没有则插入
// 3. 插入撞上唯一约束(并发的另一请求先插入)时,重新读取并按更新处理
func (s *service) Upsert(ctx context.Context, bookID, userID uint, rating int, comment string) (*Review, bool, error) {
	if err := Validate(rating, comment); err != nil {
		return nil, false, err
	}

	existing, err := s.repo.FindByBookAndUser(ctx, bookID, userID)
	switch {
	case err == nil:
		return s.revise(ctx, existing, rating, comment)
	case !errors.Is(err, ErrReviewNotFound):
		return nil, false, err
	}

	r := NewReview(bookID, userID, rating, comment)
	err = s.repo.Create(ctx, r)
	if err == nil {
		return r, true, nil
	}
	if !apperrors.IsConflict(err) {
		return nil, false, err
	}

	existing, err = s.repo.FindByBookAndUser(ctx, bookID, userID)
	if err != nil {
		return nil, false, err
	}
	return s.revise(ctx, existing, rating, comment)
}

func (s *service) revise(ctx context.Context, r *Review, rating int, comment string) (*Review, bool, error) {
	r.Revise(rating, comment)
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, false, err
	}
	return r, false, nil
}

func (s *service) Delete(ctx context.Context, reviewID, userID uint) (*Review, error) {
	r, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !r.IsWrittenBy(userID) {
		return nil, ErrNotAuthor
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) AverageFor(ctx context.Context, bookID uint) (*Average, error) {
	sum, count, err := s.repo.RatingStats(ctx, bookID)
	if err != nil {
		return nil, err
	}
	return &Average{Count: count, Value: AverageRating(sum, count)}, nil
}
