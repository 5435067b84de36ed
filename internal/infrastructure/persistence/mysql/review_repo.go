package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookoutlet/internal/domain/review"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// reviewRow 评论查询投影,关联用户昵称
type reviewRow struct {
	ReviewModel
	Nickname string
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 创建评论
// (book_id, user_id)唯一索引冲突转换为ErrDuplicateReview
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		BookID:    rv.BookID,
		UserID:    rv.UserID,
		Rating:    rv.Rating,
		Comment:   rv.Comment,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrDuplicateReview
		}
		return apperrors.Wrap(err, "创建评论失败")
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

// Update 更新评分和内容
func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	result := dbFromContext(ctx, r.db).Model(&ReviewModel{ID: rv.ID}).
		Updates(map[string]interface{}{
			"rating":     rv.Rating,
			"comment":    rv.Comment,
			"updated_at": rv.UpdatedAt,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新评论失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// Delete 删除评论
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := dbFromContext(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除评论失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// FindByID 根据ID查询
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	return r.findOne(ctx, "reviews.id = ?", id)
}

// FindByBookAndUser 查询用户对某本书的评论
func (r *reviewRepository) FindByBookAndUser(ctx context.Context, bookID, userID uint) (*review.Review, error) {
	return r.findOne(ctx, "reviews.book_id = ? AND reviews.user_id = ?", bookID, userID)
}

// ListByBook 图书评论,最新在前
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]*review.Review, error) {
	return r.list(ctx, "reviews.book_id = ?", bookID)
}

// ListByUser 用户评论,最新在前
func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]*review.Review, error) {
	return r.list(ctx, "reviews.user_id = ?", userID)
}

// RatingStats SUM与COUNT,无评论时sum为0
func (r *reviewRepository) RatingStats(ctx context.Context, bookID uint) (int64, int64, error) {
	var stats struct {
		Total int64
		Cnt   int64
	}
	err := dbFromContext(ctx, r.db).Model(&ReviewModel{}).
		Select("COALESCE(SUM(rating), 0) AS total, COUNT(*) AS cnt").
		Where("book_id = ?", bookID).
		Scan(&stats).Error
	if err != nil {
		return 0, 0, apperrors.Wrap(err, "统计评分失败")
	}
	return stats.Total, stats.Cnt, nil
}

// Count 评论总数
func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := dbFromContext(ctx, r.db).Model(&ReviewModel{}).Count(&n).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计评论失败")
	}
	return n, nil
}

func (r *reviewRepository) query(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).
		Table("reviews").
		Select("reviews.*, users.nickname AS nickname").
		Joins("LEFT JOIN users ON users.id = reviews.user_id")
}

func (r *reviewRepository) findOne(ctx context.Context, cond string, args ...interface{}) (*review.Review, error) {
	var row reviewRow
	err := r.query(ctx).Where(cond, args...).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询评论失败")
	}
	return toReviewEntity(&row), nil
}

func (r *reviewRepository) list(ctx context.Context, cond string, args ...interface{}) ([]*review.Review, error) {
	var rows []reviewRow
	err := r.query(ctx).
		Where(cond, args...).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询评论列表失败")
	}

	reviews := make([]*review.Review, len(rows))
	for i := range rows {
		reviews[i] = toReviewEntity(&rows[i])
	}
	return reviews, nil
}

func toReviewEntity(row *reviewRow) *review.Review {
	return &review.Review{
		ID:        row.ID,
		BookID:    row.BookID,
		UserID:    row.UserID,
		Rating:    row.Rating,
		Comment:   row.Comment,
		Nickname:  row.Nickname,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
