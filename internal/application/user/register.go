package user

import (
	"context"

	"github.com/xiebiao/bookoutlet/internal/domain/tx"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
)

// RegisterUseCase 用户注册
// 用户与空资料在同一事务内创建,任一失败都不留下数据
type RegisterUseCase struct {
	txManager   tx.Manager
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(txManager tx.Manager, userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{txManager: txManager, userService: userService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string
	Password string
	Nickname string
}

// RegisterResponse 注册响应,不含密码
type RegisterResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var u *user.User
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = uc.userService.Register(ctx, req.Email, req.Password, req.Nickname)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResponse{
		ID:       u.ID,
		Email:    u.Email,
		Nickname: u.Nickname,
	}, nil
}
