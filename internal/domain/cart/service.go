package cart

import (
	"context"
	"errors"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// Service 购物车领域服务
type Service interface {
	// GetOrCreate 获取用户购物车,不存在则创建
	GetOrCreate(ctx context.Context, userID uint) (*Cart, error)

	// Get 获取用户购物车,不存在时返回未持久化的空购物车
	Get(ctx context.Context, userID uint) (*Cart, error)

	// AddItem 向购物车加入图书,已有条目则累加数量
	AddItem(ctx context.Context, cart *Cart, bookID uint, quantity int) error

	// UpdateItem 对条目执行increase/decrease/remove
	UpdateItem(ctx context.Context, userID, itemID uint, action Action) error
}

type service struct {
	repo Repository
}

// NewService 创建购物车领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetOrCreate(ctx context.Context, userID uint) (*Cart, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	c = NewCart(userID)
	err = s.repo.Create(ctx, c)
	if err == nil {
		return c, nil
	}
	if !apperrors.IsConflict(err) {
		return nil, err
	}
	// 并发请求已创建
	return s.repo.FindByUserID(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID uint) (*Cart, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return &Cart{UserID: userID}, nil
	}
	return c, err
}

// AddItem 先原子累加;条目不存在时插入;插入撞上唯一约束说明并发请求刚插入,再累加一次
func (s *service) AddItem(ctx context.Context, cart *Cart, bookID uint, quantity int) error {
	if quantity < 1 {
		return apperrors.NewValidation(map[string]string{"quantity": "数量必须大于0"})
	}

	err := s.repo.IncrementItem(ctx, cart.ID, bookID, quantity)
	if err == nil || !errors.Is(err, ErrCartItemNotFound) {
		return err
	}

	err = s.repo.CreateItem(ctx, NewCartItem(cart.ID, bookID, quantity))
	if err == nil || !apperrors.IsConflict(err) {
		return err
	}
	return s.repo.IncrementItem(ctx, cart.ID, bookID, quantity)
}

func (s *service) UpdateItem(ctx context.Context, userID, itemID uint, action Action) error {
	if !action.Valid() {
		return apperrors.NewValidation(map[string]string{"action": "不支持的操作"})
	}

	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return err
	}
	c, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, ErrCartNotFound) {
		return ErrCartItemNotFound
	}
	if err != nil {
		return err
	}
	if item.CartID != c.ID {
		return ErrCartItemNotFound
	}

	switch action {
	case ActionIncrease:
		return s.repo.AdjustItem(ctx, itemID, 1)
	case ActionDecrease:
		// 数量为1时不变,删除只能通过remove
		return s.repo.AdjustItem(ctx, itemID, -1)
	default:
		return s.repo.DeleteItem(ctx, itemID)
	}
}
