package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookoutlet/internal/domain/contact"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository 创建留言仓储
func NewContactRepository(db *gorm.DB) contact.Repository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, m *contact.Message) error {
	model := &ContactMessageModel{
		Name:        m.Name,
		Email:       m.Email,
		VerifyEmail: m.VerifyEmail,
		Text:        m.Text,
		CreatedAt:   m.CreatedAt,
	}
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "保存留言失败")
	}
	m.ID = model.ID
	m.CreatedAt = model.CreatedAt
	return nil
}
