package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// DefaultBcryptCost 密码哈希成本
const DefaultBcryptCost = 12

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// Service 用户领域服务
type Service interface {
	// Register 注册：创建用户并创建空资料，调用方负责事务
	Register(ctx context.Context, email, password, nickname string) (*User, error)

	// Login 校验邮箱和密码
	Login(ctx context.Context, email, password string) (*User, error)

	// GetProfile 获取资料，历史数据缺失资料时补建
	GetProfile(ctx context.Context, userID uint) (*Profile, error)

	// UpdateProfile 更新资料
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*Profile, error)
}

type service struct {
	repo     Repository
	profiles ProfileRepository
	cost     int
}

// NewService 创建用户服务
func NewService(repo Repository, profiles ProfileRepository) Service {
	return NewServiceWithCost(repo, profiles, DefaultBcryptCost)
}

// NewServiceWithCost 指定bcrypt成本，测试中使用bcrypt.MinCost
func NewServiceWithCost(repo Repository, profiles ProfileRepository, cost int) Service {
	return &service{repo: repo, profiles: profiles, cost: cost}
}

// Register 用户注册
// 1. 邮箱、密码、昵称一并校验
// 2. 密码bcrypt加密
// 3. 邮箱唯一性由数据库UNIQUE索引保证
// 4. 显式创建空资料
func (s *service) Register(ctx context.Context, email, password, nickname string) (*User, error) {
	email = strings.TrimSpace(email)
	nickname = strings.TrimSpace(nickname)

	fields := make(map[string]string)
	if !IsValidEmail(email) {
		fields["email"] = "邮箱格式不正确"
	}
	if !isStrongPassword(password) {
		fields["password"] = apperrors.ErrWeakPassword.Message
	}
	if n := utf8.RuneCountInString(nickname); n < 2 || n > 50 {
		fields["nickname"] = "昵称长度应为2-50个字符"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidation(fields)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	u := NewUser(email, string(hashed), nickname)
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if err := s.profiles.Create(ctx, NewProfile(u.ID)); err != nil {
		return nil, err
	}
	return u, nil
}

// Login 用户登录
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, apperrors.ErrInvalidPassword
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "密码验证失败")
	}
	return u, nil
}

func (s *service) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	p = NewProfile(userID)
	err = s.profiles.Create(ctx, p)
	if apperrors.IsConflict(err) {
		return s.profiles.FindByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*Profile, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Apply(update)
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// IsValidEmail 邮箱格式校验
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// 8-20位，必须包含字母和数字
func isStrongPassword(password string) bool {
	if len(password) < 8 || len(password) > 20 {
		return false
	}
	return hasLetter.MatchString(password) && hasDigit.MatchString(password)
}
