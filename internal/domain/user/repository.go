package user

import (
	"context"
)

// Repository 用户仓储接口
type Repository interface {
	// Create 创建用户，邮箱已存在返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// ProfileRepository 用户资料仓储接口
type ProfileRepository interface {
	// Create 创建资料，(user_id)唯一
	Create(ctx context.Context, profile *Profile) error

	// FindByUserID 不存在返回ErrProfileNotFound
	FindByUserID(ctx context.Context, userID uint) (*Profile, error)

	// Update 更新资料
	Update(ctx context.Context, profile *Profile) error
}
