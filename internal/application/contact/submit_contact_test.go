package contact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

func TestSubmitContact(t *testing.T) {
	uc := NewSubmitContactUseCase(memory.NewStore().Contacts())
	ctx := context.Background()

	t.Run("正常提交", func(t *testing.T) {
		resp, err := uc.Execute(ctx, SubmitContactRequest{
			Name: "Ann", Email: "ann@example.com", VerifyEmail: "ann@example.com", Text: "Hello",
		})
		require.NoError(t, err)
		assert.NotZero(t, resp.ID)
	})

	t.Run("两次邮箱不一致", func(t *testing.T) {
		_, err := uc.Execute(ctx, SubmitContactRequest{
			Name: "Ann", Email: "ann@example.com", VerifyEmail: "other@example.com", Text: "Hello",
		})
		require.Error(t, err)
		fields := apperrors.GetAppError(err).Fields
		assert.Contains(t, fields, "verify_email")
		assert.Len(t, fields, 1)
	})

	t.Run("空字段", func(t *testing.T) {
		_, err := uc.Execute(ctx, SubmitContactRequest{})
		require.Error(t, err)
		fields := apperrors.GetAppError(err).Fields
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "email")
		assert.Contains(t, fields, "text")
	})
}
