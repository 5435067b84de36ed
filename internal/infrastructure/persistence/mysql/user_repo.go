package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookoutlet/internal/domain/user"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// userRepository 用户仓储实现(MySQL)
// 负责实体与GORM模型转换,数据库错误转换为业务错误
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
// 邮箱唯一性由UNIQUE索引保证,1062转换为ErrEmailDuplicate
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Email:     u.Email,
		Password:  u.Password,
		Nickname:  u.Nickname,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	err := dbFromContext(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	err := dbFromContext(ctx, r.db).Where("email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:        model.ID,
		Email:     model.Email,
		Password:  model.Password,
		Nickname:  model.Nickname,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

// profileRepository 用户资料仓储
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository 创建用户资料仓储
func NewProfileRepository(db *gorm.DB) user.ProfileRepository {
	return &profileRepository{db: db}
}

// Create 创建资料,同一用户重复创建返回ErrConflict
func (r *profileRepository) Create(ctx context.Context, p *user.Profile) error {
	model := toProfileModel(p)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "创建用户资料失败")
	}

	p.ID = model.ID
	p.CreatedAt = model.CreatedAt
	p.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByUserID 查询用户资料
func (r *profileRepository) FindByUserID(ctx context.Context, userID uint) (*user.Profile, error) {
	var model UserProfileModel
	err := dbFromContext(ctx, r.db).Where("user_id = ?", userID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户资料失败")
	}
	return toProfileEntity(&model), nil
}

// Update 覆盖可写字段
func (r *profileRepository) Update(ctx context.Context, p *user.Profile) error {
	model := toProfileModel(p)
	result := dbFromContext(ctx, r.db).Model(&UserProfileModel{ID: p.ID}).
		Select("bio", "location", "favorite_genres", "birth_date", "updated_at").
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新用户资料失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrProfileNotFound
	}
	p.UpdatedAt = model.UpdatedAt
	return nil
}

func toProfileModel(p *user.Profile) *UserProfileModel {
	return &UserProfileModel{
		ID:             p.ID,
		UserID:         p.UserID,
		Bio:            p.Bio,
		Location:       p.Location,
		FavoriteGenres: p.FavoriteGenres,
		BirthDate:      p.BirthDate,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProfileEntity(model *UserProfileModel) *user.Profile {
	return &user.Profile{
		ID:             model.ID,
		UserID:         model.UserID,
		Bio:            model.Bio,
		Location:       model.Location,
		FavoriteGenres: model.FavoriteGenres,
		BirthDate:      model.BirthDate,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
