package book

import (
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrNotOwner 只有发布者可以修改图书
	ErrNotOwner = apperrors.New(apperrors.ErrCodeForbidden, "无权操作此图书")
)
