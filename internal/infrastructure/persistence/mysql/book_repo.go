package mysql

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFromContext(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	return toBookEntity(&model), nil
}

// LockByID SELECT ... FOR UPDATE
// 评分重算时锁定图书行,同一本书的并发评论按顺序重算
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := dbFromContext(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}
	return toBookEntity(&model), nil
}

// FindByIDs 批量查询
func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*book.Book, error) {
	result := make(map[uint]*book.Book, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []BookModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	for i := range models {
		result[models[i].ID] = toBookEntity(&models[i])
	}
	return result, nil
}

// Update 更新可写字段,rating只由UpdateRating写入
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)
	result := dbFromContext(ctx, r.db).Model(&BookModel{ID: b.ID}).
		Select("title", "author", "genre", "isbn", "description", "price",
			"copies_available", "is_featured", "publication_date", "cover_image", "updated_at").
		Updates(model)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateRating 写入派生评分,nil写入NULL
func (r *bookRepository) UpdateRating(ctx context.Context, id uint, rating *decimal.Decimal) error {
	value := decimal.NullDecimal{}
	if rating != nil {
		value = decimal.NullDecimal{Decimal: *rating, Valid: true}
	}

	err := dbFromContext(ctx, r.db).Model(&BookModel{}).
		Where("id = ?", id).
		Update("rating", value).Error
	if err != nil {
		return apperrors.Wrap(err, "更新图书评分失败")
	}
	return nil
}

// Search 条件查询+分页
func (r *bookRepository) Search(ctx context.Context, params book.SearchParams) ([]*book.Book, int64, error) {
	query := dbFromContext(ctx, r.db).Model(&BookModel{})

	if params.Query != "" {
		kw := "%" + escapeLike(strings.ToLower(params.Query)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", kw, kw)
	}
	if params.Genre != "" {
		query = query.Where("LOWER(genre) = ?", strings.ToLower(params.Genre))
	}
	if params.MinPrice != nil {
		query = query.Where("price >= ?", *params.MinPrice)
	}
	if params.MaxPrice != nil {
		query = query.Where("price <= ?", *params.MaxPrice)
	}
	if params.MinRating != nil {
		query = query.Where("rating IS NOT NULL AND rating >= ?", *params.MinRating)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}

	switch params.SortBy {
	case book.SortPriceLow:
		query = query.Order("price ASC").Order("id ASC")
	case book.SortPriceHigh:
		query = query.Order("price DESC").Order("id DESC")
	case book.SortRating:
		// MySQL降序时NULL排在最后
		query = query.Order("rating DESC").Order("id DESC")
	case book.SortTitle:
		query = query.Order("title ASC").Order("id ASC")
	default:
		query = query.Order("created_at DESC").Order("id DESC")
	}

	var models []BookModel
	offset := (params.Page - 1) * params.PageSize
	if err := query.Limit(params.PageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, total, nil
}

// ListAll 全部图书
func (r *bookRepository) ListAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	if err := dbFromContext(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// Genres 去重类型列表
func (r *bookRepository) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	err := dbFromContext(ctx, r.db).Model(&BookModel{}).
		Where("genre IS NOT NULL AND genre <> ''").
		Distinct().
		Order("genre ASC").
		Pluck("genre", &genres).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书类型失败")
	}
	return genres, nil
}

// Summary 目录统计
func (r *bookRepository) Summary(ctx context.Context) (*book.Summary, error) {
	db := dbFromContext(ctx, r.db)
	var s book.Summary

	if err := db.Model(&BookModel{}).Count(&s.TotalBooks).Error; err != nil {
		return nil, apperrors.Wrap(err, "统计图书失败")
	}
	if err := db.Model(&BookModel{}).Where("is_featured = ?", true).Count(&s.FeaturedBooks).Error; err != nil {
		return nil, apperrors.Wrap(err, "统计推荐图书失败")
	}

	var avg decimal.NullDecimal
	err := db.Model(&BookModel{}).
		Select("AVG(rating)").
		Where("rating IS NOT NULL").
		Row().Scan(&avg)
	if err != nil {
		return nil, apperrors.Wrap(err, "统计平均评分失败")
	}
	if avg.Valid {
		s.AverageRating = avg.Decimal.Round(2)
	}
	return &s, nil
}

// =========================================
// 模型转换
// =========================================

func toBookModel(b *book.Book) *BookModel {
	model := &BookModel{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		ISBN:            b.ISBN,
		Description:     b.Description,
		Price:           b.Price,
		CopiesAvailable: b.CopiesAvailable,
		IsFeatured:      b.IsFeatured,
		PublicationDate: b.PublicationDate,
		CoverImage:      b.CoverImage,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
	if b.Rating != nil {
		model.Rating = decimal.NullDecimal{Decimal: *b.Rating, Valid: true}
	}
	return model
}

func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:              model.ID,
		Title:           model.Title,
		Author:          model.Author,
		Genre:           model.Genre,
		ISBN:            model.ISBN,
		Description:     model.Description,
		Price:           model.Price,
		CopiesAvailable: model.CopiesAvailable,
		IsFeatured:      model.IsFeatured,
		PublicationDate: model.PublicationDate,
		CoverImage:      model.CoverImage,
		CreatedBy:       model.CreatedBy,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.Rating.Valid {
		rating := model.Rating.Decimal
		b.Rating = &rating
	}
	return b
}
