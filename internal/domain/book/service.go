package book

import (
	"context"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service 图书领域服务接口
type Service interface {
	// PublishBook 发布图书,校验全部字段后持久化
	PublishBook(ctx context.Context, userID uint, attrs Attributes) (*Book, error)

	// UpdateBook 修改图书,只有发布者本人可以修改
	UpdateBook(ctx context.Context, userID, bookID uint, attrs Attributes) (*Book, error)

	// GetBookByID 根据ID获取图书
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// SearchBooks 条件搜索,参数在此处归一化
	SearchBooks(ctx context.Context, params SearchParams) ([]*Book, int64, error)

	// Genres 可选类型列表
	Genres(ctx context.Context) ([]string, error)

	// ListAll 全部图书
	ListAll(ctx context.Context) ([]*Book, error)

	// Summary 目录统计
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) PublishBook(ctx context.Context, userID uint, attrs Attributes) (*Book, error) {
	b := NewBook(attrs, userID)
	if err := Validate(b); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) UpdateBook(ctx context.Context, userID, bookID uint, attrs Attributes) (*Book, error) {
	b, err := s.repo.FindByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !b.IsOwnedBy(userID) {
		return nil, ErrNotOwner
	}

	b.UpdateInfo(attrs)
	if err := Validate(b); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) SearchBooks(ctx context.Context, params SearchParams) ([]*Book, int64, error) {
	return s.repo.Search(ctx, NormalizeSearch(params))
}

func (s *service) Genres(ctx context.Context) ([]string, error) {
	return s.repo.Genres(ctx)
}

func (s *service) ListAll(ctx context.Context) ([]*Book, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Summary(ctx context.Context) (*Summary, error) {
	return s.repo.Summary(ctx)
}

// NormalizeSearch 去除空白,补全分页,未知排序回落到newest
func NormalizeSearch(p SearchParams) SearchParams {
	p.Query = strings.TrimSpace(p.Query)
	p.Genre = strings.TrimSpace(p.Genre)

	switch p.SortBy {
	case SortPriceLow, SortPriceHigh, SortRating, SortTitle:
	default:
		p.SortBy = SortNewest
	}

	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}
