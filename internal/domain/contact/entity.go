// Package contact 访客留言
package contact

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xiebiao/bookoutlet/internal/domain/user"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

const maxNameLength = 200

// Message 访客留言
type Message struct {
	ID          uint
	Name        string
	Email       string
	VerifyEmail string
	Text        string
	CreatedAt   time.Time
}

// NewMessage 创建留言
func NewMessage(name, email, verifyEmail, text string) *Message {
	return &Message{
		Name:        strings.TrimSpace(name),
		Email:       strings.TrimSpace(email),
		VerifyEmail: strings.TrimSpace(verifyEmail),
		Text:        strings.TrimSpace(text),
		CreatedAt:   time.Now(),
	}
}

// Validate 字段一并校验
func (m *Message) Validate() error {
	fields := make(map[string]string)

	switch {
	case m.Name == "":
		fields["name"] = "姓名不能为空"
	case utf8.RuneCountInString(m.Name) > maxNameLength:
		fields["name"] = "姓名不能超过200个字符"
	}
	if !user.IsValidEmail(m.Email) {
		fields["email"] = "邮箱格式不正确"
	}
	if m.Email != m.VerifyEmail {
		fields["verify_email"] = "两次输入的邮箱不一致"
	}
	if m.Text == "" {
		fields["text"] = "留言内容不能为空"
	}

	if len(fields) == 0 {
		return nil
	}
	return apperrors.NewValidation(fields)
}

// Repository 留言仓储接口
type Repository interface {
	Create(ctx context.Context, msg *Message) error
}
