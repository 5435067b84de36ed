package user

import (
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// ErrProfileNotFound 用户资料不存在
var ErrProfileNotFound = apperrors.New(apperrors.ErrCodeNotFound, "用户资料不存在")
