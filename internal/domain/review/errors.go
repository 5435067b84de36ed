package review

import (
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

var (
	// ErrReviewNotFound 评论不存在
	ErrReviewNotFound = apperrors.New(apperrors.ErrCodeReviewNotFound, "评论不存在")

	// ErrNotAuthor 只能删除自己的评论
	ErrNotAuthor = apperrors.New(apperrors.ErrCodeForbidden, "只能操作自己的评论")

	// ErrDuplicateReview (book, user)唯一约束冲突,仓储层返回
	ErrDuplicateReview = apperrors.New(apperrors.ErrCodeDuplicateEntry, "已经评论过这本书")
)
