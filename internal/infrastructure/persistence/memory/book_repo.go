package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
)

type bookRepository struct {
	s *Store
}

func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	defer r.s.lock(ctx)()

	now := r.s.now()
	b.ID = r.s.data.nextID("books")
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = b.CreatedAt
	r.s.data.books[b.ID] = *b
	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	defer r.s.lock(ctx)()

	b, ok := r.s.data.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return &b, nil
}

// LockByID 事务已持有全局锁
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.FindByID(ctx, id)
}

func (r *bookRepository) FindByIDs(ctx context.Context, ids []uint) (map[uint]*book.Book, error) {
	defer r.s.lock(ctx)()

	result := make(map[uint]*book.Book, len(ids))
	for _, id := range ids {
		if b, ok := r.s.data.books[id]; ok {
			b := b
			result[id] = &b
		}
	}
	return result, nil
}

func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	defer r.s.lock(ctx)()

	stored, ok := r.s.data.books[b.ID]
	if !ok {
		return book.ErrBookNotFound
	}
	updated := *b
	updated.Rating = stored.Rating
	updated.CreatedAt = stored.CreatedAt
	updated.CreatedBy = stored.CreatedBy
	r.s.data.books[b.ID] = updated
	return nil
}

func (r *bookRepository) UpdateRating(ctx context.Context, id uint, rating *decimal.Decimal) error {
	defer r.s.lock(ctx)()

	b, ok := r.s.data.books[id]
	if !ok {
		return nil
	}
	if rating != nil {
		v := *rating
		b.Rating = &v
	} else {
		b.Rating = nil
	}
	r.s.data.books[id] = b
	return nil
}

func (r *bookRepository) Search(ctx context.Context, p book.SearchParams) ([]*book.Book, int64, error) {
	defer r.s.lock(ctx)()

	query := strings.ToLower(p.Query)
	matched := make([]book.Book, 0, len(r.s.data.books))
	for _, b := range r.s.data.books {
		if query != "" &&
			!strings.Contains(strings.ToLower(b.Title), query) &&
			!strings.Contains(strings.ToLower(b.Author), query) {
			continue
		}
		if p.Genre != "" && !strings.EqualFold(b.Genre, p.Genre) {
			continue
		}
		if p.MinPrice != nil && b.Price.LessThan(*p.MinPrice) {
			continue
		}
		if p.MaxPrice != nil && b.Price.GreaterThan(*p.MaxPrice) {
			continue
		}
		if p.MinRating != nil && (b.Rating == nil || b.Rating.LessThan(*p.MinRating)) {
			continue
		}
		matched = append(matched, b)
	}

	sort.Slice(matched, lessBooks(matched, p.SortBy))

	total := int64(len(matched))
	start := (p.Page - 1) * p.PageSize
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if p.PageSize > 0 && start+p.PageSize < end {
		end = start + p.PageSize
	}

	books := make([]*book.Book, 0, end-start)
	for i := start; i < end; i++ {
		b := matched[i]
		books = append(books, &b)
	}
	return books, total, nil
}

// lessBooks 与MySQL实现的ORDER BY一致
func lessBooks(books []book.Book, sortBy string) func(i, j int) bool {
	return func(i, j int) bool {
		a, b := books[i], books[j]
		switch sortBy {
		case book.SortPriceLow:
			if !a.Price.Equal(b.Price) {
				return a.Price.LessThan(b.Price)
			}
			return a.ID < b.ID
		case book.SortPriceHigh:
			if !a.Price.Equal(b.Price) {
				return a.Price.GreaterThan(b.Price)
			}
			return a.ID > b.ID
		case book.SortRating:
			switch {
			case a.Rating == nil && b.Rating == nil:
			case a.Rating == nil:
				return false
			case b.Rating == nil:
				return true
			case !a.Rating.Equal(*b.Rating):
				return a.Rating.GreaterThan(*b.Rating)
			}
			return a.ID > b.ID
		case book.SortTitle:
			if a.Title != b.Title {
				return a.Title < b.Title
			}
			return a.ID < b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	}
}

func (r *bookRepository) ListAll(ctx context.Context) ([]*book.Book, error) {
	defer r.s.lock(ctx)()

	books := make([]*book.Book, 0, len(r.s.data.books))
	for _, b := range r.s.data.books {
		b := b
		books = append(books, &b)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

func (r *bookRepository) Genres(ctx context.Context) ([]string, error) {
	defer r.s.lock(ctx)()

	seen := make(map[string]struct{})
	genres := make([]string, 0)
	for _, b := range r.s.data.books {
		if b.Genre == "" {
			continue
		}
		if _, ok := seen[b.Genre]; ok {
			continue
		}
		seen[b.Genre] = struct{}{}
		genres = append(genres, b.Genre)
	}
	sort.Strings(genres)
	return genres, nil
}

func (r *bookRepository) Summary(ctx context.Context) (*book.Summary, error) {
	defer r.s.lock(ctx)()

	var s book.Summary
	sum := decimal.Zero
	rated := int64(0)
	for _, b := range r.s.data.books {
		s.TotalBooks++
		if b.IsFeatured {
			s.FeaturedBooks++
		}
		if b.Rating != nil {
			sum = sum.Add(*b.Rating)
			rated++
		}
	}
	if rated > 0 {
		s.AverageRating = sum.DivRound(decimal.NewFromInt(rated), 2)
	}
	return &s, nil
}
