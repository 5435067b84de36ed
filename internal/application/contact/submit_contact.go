package contact

import (
	"context"

	"github.com/xiebiao/bookoutlet/internal/domain/contact"
)

// SubmitContactUseCase 访客留言
type SubmitContactUseCase struct {
	repo contact.Repository
}

// NewSubmitContactUseCase 创建留言用例
func NewSubmitContactUseCase(repo contact.Repository) *SubmitContactUseCase {
	return &SubmitContactUseCase{repo: repo}
}

// SubmitContactRequest 留言请求
type SubmitContactRequest struct {
	Name        string
	Email       string
	VerifyEmail string
	Text        string
}

// SubmitContactResponse 留言结果
type SubmitContactResponse struct {
	ID uint `json:"id"`
}

// Execute 校验后保存
func (uc *SubmitContactUseCase) Execute(ctx context.Context, req SubmitContactRequest) (*SubmitContactResponse, error) {
	msg := contact.NewMessage(req.Name, req.Email, req.VerifyEmail, req.Text)
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return &SubmitContactResponse{ID: msg.ID}, nil
}
