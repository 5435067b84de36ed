package user

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// User 用户实体（聚合根）
// 密码只保存bcrypt哈希
type User struct {
	ID        uint
	Email     string
	Password  string
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户，hashedPassword必须是bcrypt哈希
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Profile 用户资料，与User一对一，注册时在同一事务内创建
type Profile struct {
	ID             uint
	UserID         uint
	Bio            string
	Location       string
	FavoriteGenres string
	BirthDate      *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProfile 空资料
func NewProfile(userID uint) *Profile {
	now := time.Now()
	return &Profile{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProfileUpdate 资料可写字段
type ProfileUpdate struct {
	Bio            string
	Location       string
	FavoriteGenres string
	BirthDate      *time.Time
}

const (
	maxBioLength      = 500
	maxLocationLength = 30
	maxFavoriteGenres = 200
)

// Validate 资料字段校验，错误一并返回
func (u ProfileUpdate) Validate() error {
	fields := make(map[string]string)
	if utf8.RuneCountInString(strings.TrimSpace(u.Bio)) > maxBioLength {
		fields["bio"] = "个人简介不能超过500个字符"
	}
	if utf8.RuneCountInString(u.Location) > maxLocationLength {
		fields["location"] = "所在地不能超过30个字符"
	}
	if utf8.RuneCountInString(u.FavoriteGenres) > maxFavoriteGenres {
		fields["favorite_genres"] = "喜欢的类型不能超过200个字符"
	}
	if u.BirthDate != nil && u.BirthDate.After(time.Now()) {
		fields["birth_date"] = "出生日期不能晚于今天"
	}
	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidation(fields)
}

// Apply 覆盖资料字段
func (p *Profile) Apply(u ProfileUpdate) {
	p.Bio = u.Bio
	p.Location = u.Location
	p.FavoriteGenres = u.FavoriteGenres
	p.BirthDate = u.BirthDate
	p.UpdatedAt = time.Now()
}
