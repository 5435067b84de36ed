package dto

import (
	"time"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// RegisterRequest HTTP层注册请求
// 密码强度、昵称长度等规则由领域层校验
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Nickname string `json:"nickname" binding:"required" example:"Reader"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"reader@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// UpdateProfileRequest 修改资料
type UpdateProfileRequest struct {
	Bio            string `json:"bio" example:"Reader of classics"`
	Location       string `json:"location" example:"Bath"`
	FavoriteGenres string `json:"favorite_genres" example:"Classic, Romance"`
	BirthDate      string `json:"birth_date" binding:"omitempty,datetime=2006-01-02" example:"1990-05-01"`
}

// ParseBirthDate 空字符串表示清空
func (r UpdateProfileRequest) ParseBirthDate() (*time.Time, error) {
	if r.BirthDate == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, r.BirthDate)
	if err != nil {
		return nil, apperrors.NewValidation(map[string]string{"birth_date": "日期格式应为2006-01-02"})
	}
	return &d, nil
}

// ContactRequest 访客留言
type ContactRequest struct {
	Name        string `json:"name" example:"Ann"`
	Email       string `json:"email" example:"ann@example.com"`
	VerifyEmail string `json:"verify_email" example:"ann@example.com"`
	Text        string `json:"text" example:"Do you ship abroad?"`
}
