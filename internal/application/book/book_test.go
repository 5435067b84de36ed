package book

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

type fixture struct {
	store   *memory.Store
	cache   *memory.Cache
	books   book.Service
	publish *PublishBookUseCase
	update  *UpdateBookUseCase
	search  *SearchBooksUseCase
	detail  *GetBookUseCase
	stats   *StatsUseCase
	catalog *CatalogJSONUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	cache := memory.NewCache()
	books := book.NewService(store.Books())
	return &fixture{
		store:   store,
		cache:   cache,
		books:   books,
		publish: NewPublishBookUseCase(books, cache),
		update:  NewUpdateBookUseCase(books, cache),
		search:  NewSearchBooksUseCase(books),
		detail:  NewGetBookUseCase(books, store.Reviews()),
		stats:   NewStatsUseCase(books, store.Reviews(), cache, time.Minute),
		catalog: NewCatalogJSONUseCase(books),
	}
}

func attrs(title, genre, price string) book.Attributes {
	return book.Attributes{
		Title:  title,
		Author: "Jane Austen",
		Genre:  genre,
		Price:  decimal.RequireFromString(price),
	}
}

func (f *fixture) mustPublish(t *testing.T, a book.Attributes) *BookResponse {
	t.Helper()
	resp, err := f.publish.Execute(context.Background(), PublishBookRequest{UserID: 1, Attributes: a})
	require.NoError(t, err)
	return resp
}

func TestPublishBook(t *testing.T) {
	f := newFixture()

	t.Run("正常发布", func(t *testing.T) {
		resp := f.mustPublish(t, attrs("Emma", "Classic", "9.9"))
		assert.NotZero(t, resp.ID)
		assert.Equal(t, "9.90", resp.Price)
		assert.Nil(t, resp.Rating, "新书没有评分")
	})

	t.Run("字段校验失败", func(t *testing.T) {
		a := attrs("", "Classic", "1")
		a.Author = "Solo"
		_, err := f.publish.Execute(context.Background(), PublishBookRequest{UserID: 1, Attributes: a})
		require.Error(t, err)
		fields := apperrors.GetAppError(err).Fields
		assert.Contains(t, fields, "title")
		assert.Contains(t, fields, "author")
	})
}

func TestUpdateBookOwnership(t *testing.T) {
	f := newFixture()
	created := f.mustPublish(t, attrs("Emma", "Classic", "10"))

	_, err := f.update.Execute(context.Background(), UpdateBookRequest{
		UserID: 2, BookID: created.ID, Attributes: attrs("Emma", "Classic", "1"),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	resp, err := f.update.Execute(context.Background(), UpdateBookRequest{
		UserID: 1, BookID: created.ID, Attributes: attrs("Emma", "Romance", "11"),
	})
	require.NoError(t, err)
	assert.Equal(t, "11.00", resp.Price)
	assert.Equal(t, "Romance", resp.Genre)
}

func TestSearchBooks(t *testing.T) {
	f := newFixture()
	f.mustPublish(t, attrs("Emma", "Classic", "30"))
	f.mustPublish(t, attrs("Persuasion", "Classic", "10"))
	f.mustPublish(t, attrs("Dune", "Science Fiction", "20"))

	resp, err := f.search.Execute(context.Background(), SearchBooksRequest{Genre: "classic", SortBy: book.SortPriceLow})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Persuasion", resp.Items[0].Title)
	assert.Equal(t, []string{"Classic", "Science Fiction"}, resp.Genres)

	resp, err = f.search.Execute(context.Background(), SearchBooksRequest{Query: "DUNE"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)

	resp, err = f.search.Execute(context.Background(), SearchBooksRequest{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Len(t, resp.Items, 1)
}

func TestGetBookDetail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	created := f.mustPublish(t, attrs("Emma", "Classic", "10"))
	require.NoError(t, f.store.Reviews().Create(ctx, review.NewReview(created.ID, 7, 4, "good")))
	require.NoError(t, f.store.Reviews().Create(ctx, review.NewReview(created.ID, 8, 2, "meh")))

	resp, err := f.detail.Execute(ctx, created.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.ReviewCount)
	require.NotNil(t, resp.UserReview)
	assert.Equal(t, "good", resp.UserReview.Comment)

	anon, err := f.detail.Execute(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Nil(t, anon.UserReview)

	_, err = f.detail.Execute(ctx, 999, 0)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
}

func TestStatsCachedUntilInvalidated(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.mustPublish(t, attrs("Emma", "Classic", "10"))

	first, err := f.stats.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalBooks)

	// 绕过用例直接写库,缓存未失效
	require.NoError(t, f.store.Books().Create(ctx, book.NewBook(attrs("Dune", "", "1"), 0)))
	cached, err := f.stats.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.TotalBooks)

	// 通过用例发布会删除缓存
	f.mustPublish(t, attrs("Persuasion", "Classic", "10"))
	fresh, err := f.stats.Execute(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fresh.TotalBooks)
}

func TestCatalogJSON(t *testing.T) {
	f := newFixture()
	f.mustPublish(t, attrs("Emma", "Classic", "10"))
	f.mustPublish(t, attrs("Dune", "Science Fiction", "20"))

	items, err := f.catalog.Execute(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
