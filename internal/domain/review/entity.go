package review

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

const (
	MinRating        = 1
	MaxRating        = 5
	maxCommentLength = 1000
)

// Review 书评
// (BookID, UserID) 在数据库层唯一,每个用户对每本书只有一条评论
type Review struct {
	ID        uint
	BookID    uint
	UserID    uint
	Rating    int
	Comment   string // 入库前已去除首尾空白
	Nickname  string // 读取时关联用户表填充,只读
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewReview 创建评论,comment按去除空白后的内容保存
func NewReview(bookID, userID uint, rating int, comment string) *Review {
	now := time.Now()
	return &Review{
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Revise 用新的评分和内容覆盖
func (r *Review) Revise(rating int, comment string) {
	r.Rating = rating
	r.Comment = strings.TrimSpace(comment)
	r.UpdatedAt = time.Now()
}

// IsWrittenBy 是否为指定用户所写
func (r *Review) IsWrittenBy(userID uint) bool {
	return r.UserID == userID
}

// Validate 校验评分和内容,两个字段的错误一并返回
func Validate(rating int, comment string) error {
	fields := make(map[string]string)

	if rating < MinRating || rating > MaxRating {
		fields["rating"] = "评分必须在1到5之间"
	}

	trimmed := strings.TrimSpace(comment)
	switch {
	case trimmed == "":
		fields["comment"] = "评论内容不能为空"
	case utf8.RuneCountInString(trimmed) > maxCommentLength:
		fields["comment"] = "评论内容不能超过1000个字符"
	}

	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidation(fields)
}

// AverageRating 由评分总和与条数计算平均分,保留一位小数
// 按float64均值的二进制值舍入,恰好为.x5时取偶(2.25 → 2.2)
// count为0时返回nil
func AverageRating(sum, count int64) *decimal.Decimal {
	if count <= 0 {
		return nil
	}
	mean := float64(sum) / float64(count)
	avg := decimal.RequireFromString(strconv.FormatFloat(mean, 'f', 1, 64))
	return &avg
}
