package book

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository 图书仓储接口
// 由domain层定义,infrastructure层实现(MySQL/内存)
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书,不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// LockByID 悲观锁查询(SELECT ... FOR UPDATE),必须在事务内调用
	LockByID(ctx context.Context, id uint) (*Book, error)

	// FindByIDs 批量查询,不存在的ID直接忽略
	FindByIDs(ctx context.Context, ids []uint) (map[uint]*Book, error)

	// Update 更新可写字段(不含Rating)
	Update(ctx context.Context, book *Book) error

	// UpdateRating 写入派生评分,nil写入NULL
	UpdateRating(ctx context.Context, id uint, rating *decimal.Decimal) error

	// Search 条件查询+分页
	Search(ctx context.Context, params SearchParams) ([]*Book, int64, error)

	// ListAll 全部图书,按ID升序
	ListAll(ctx context.Context) ([]*Book, error)

	// Genres 去重后的非空类型列表,按字母序
	Genres(ctx context.Context) ([]string, error)

	// Summary 目录统计
	Summary(ctx context.Context) (*Summary, error)
}

// 排序方式
const (
	SortNewest    = "newest"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortRating    = "rating"
	SortTitle     = "title"
)

// SearchParams 搜索参数
type SearchParams struct {
	Query     string           // 书名或作者包含(不区分大小写)
	Genre     string           // 类型精确匹配(不区分大小写)
	MinPrice  *decimal.Decimal // 最低价格
	MaxPrice  *decimal.Decimal // 最高价格
	MinRating *decimal.Decimal // 最低评分,无评分的图书不满足
	SortBy    string
	Page      int
	PageSize  int
}

// Summary 目录统计
type Summary struct {
	TotalBooks    int64
	FeaturedBooks int64
	AverageRating decimal.Decimal // 有评分图书的平均分,没有时为0
}
