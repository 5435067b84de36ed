package book

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/pkg/logger"
)

// CatalogItem JSON目录条目
type CatalogItem struct {
	ID     uint     `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author"`
	Genre  string   `json:"genre"`
	Price  string   `json:"price"`
	Rating *float64 `json:"rating"`
}

// CatalogJSONUseCase 全部图书的精简列表
type CatalogJSONUseCase struct {
	bookService book.Service
}

// NewCatalogJSONUseCase 创建目录用例
func NewCatalogJSONUseCase(bookService book.Service) *CatalogJSONUseCase {
	return &CatalogJSONUseCase{bookService: bookService}
}

// Execute 按ID升序返回
func (uc *CatalogJSONUseCase) Execute(ctx context.Context) ([]CatalogItem, error) {
	books, err := uc.bookService.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]CatalogItem, len(books))
	for i, b := range books {
		items[i] = CatalogItem{
			ID:     b.ID,
			Title:  b.Title,
			Author: b.Author,
			Genre:  b.Genre,
			Price:  b.Price.StringFixed(2),
			Rating: b.RatingFloat(),
		}
	}
	return items, nil
}

// StatsResponse 目录统计
type StatsResponse struct {
	TotalBooks    int64   `json:"total_books"`
	TotalReviews  int64   `json:"total_reviews"`
	AverageRating float64 `json:"average_rating"`
	FeaturedBooks int64   `json:"featured_books"`
}

// StatsUseCase 目录统计,读穿缓存
type StatsUseCase struct {
	bookService book.Service
	reviewRepo  review.Repository
	cache       Cache
	ttl         time.Duration
}

// NewStatsUseCase 创建统计用例
func NewStatsUseCase(bookService book.Service, reviewRepo review.Repository, cache Cache, ttl time.Duration) *StatsUseCase {
	return &StatsUseCase{bookService: bookService, reviewRepo: reviewRepo, cache: cache, ttl: ttl}
}

// Execute 缓存异常时直接查库
func (uc *StatsUseCase) Execute(ctx context.Context) (*StatsResponse, error) {
	log := logger.FromContext(ctx)

	var cached StatsResponse
	if uc.cache != nil {
		hit, err := uc.cache.GetJSON(ctx, StatsCacheKey, &cached)
		if err != nil {
			log.Warn("读取统计缓存失败", zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	summary, err := uc.bookService.Summary(ctx)
	if err != nil {
		return nil, err
	}
	reviews, err := uc.reviewRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	avg, _ := summary.AverageRating.Round(2).Float64()
	stats := &StatsResponse{
		TotalBooks:    summary.TotalBooks,
		TotalReviews:  reviews,
		AverageRating: avg,
		FeaturedBooks: summary.FeaturedBooks,
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, StatsCacheKey, stats, uc.ttl); err != nil {
			log.Warn("写入统计缓存失败", zap.Error(err))
		}
	}
	return stats, nil
}
