//go:build integration

package mysql

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

// 需要真实MySQL:
// BOOKSTORE_DATABASE_HOST=127.0.0.1 BOOKSTORE_DATABASE_USER=root BOOKSTORE_DATABASE_PASSWORD=... \
// BOOKSTORE_DATABASE_DBNAME=bookstore_test go test -tags integration ./internal/infrastructure/persistence/mysql/
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("BOOKSTORE_DATABASE_HOST") == "" {
		t.Skip("BOOKSTORE_DATABASE_HOST未设置,跳过MySQL测试")
	}

	cfg, err := config.LoadFrom("", t.TempDir())
	require.NoError(t, err)
	cfg.Database.AutoMigrate = true

	db, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)

	truncateAll(t, db)
	t.Cleanup(func() {
		truncateAll(t, db)
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// 子表在前
func truncateAll(t *testing.T, db *gorm.DB) {
	t.Helper()
	tables := []string{
		"order_items", "orders", "cart_items", "carts", "reviews",
		"books", "user_profiles", "contact_messages", "users",
	}
	for _, table := range tables {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
}

func seedUser(t *testing.T, db *gorm.DB, email, nickname string) *user.User {
	t.Helper()
	u := user.NewUser(email, "hashed", nickname)
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedBook(t *testing.T, db *gorm.DB, title, genre, price string) *book.Book {
	t.Helper()
	b := book.NewBook(book.Attributes{
		Title:           title,
		Author:          "Jane Austen",
		Genre:           genre,
		Price:           decimal.RequireFromString(price),
		CopiesAvailable: 5,
	}, 0)
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "a@example.com", "alice")

	err := NewUserRepository(db).Create(context.Background(), user.NewUser("a@example.com", "x", "other"))
	assert.True(t, errors.Is(err, apperrors.ErrEmailDuplicate))
}

func TestReviewRepositoryUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)

	u := seedUser(t, db, "r@example.com", "reader")
	b := seedBook(t, db, "Emma", "Classic", "9.99")

	rv := review.NewReview(b.ID, u.ID, 4, "  不错  ")
	require.NoError(t, repo.Create(ctx, rv))

	t.Run("内容不变重复提交", func(t *testing.T) {
		stored, err := repo.FindByID(ctx, rv.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Update(ctx, stored))
		require.NoError(t, repo.Update(ctx, stored))
	})

	t.Run("修改评分", func(t *testing.T) {
		rv.Rating = 5
		rv.UpdatedAt = time.Now()
		require.NoError(t, repo.Update(ctx, rv))

		stored, err := repo.FindByBookAndUser(ctx, b.ID, u.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Rating)
		assert.Equal(t, "不错", stored.Comment)
		assert.Equal(t, "reader", stored.Nickname)
	})

	t.Run("不存在的评论", func(t *testing.T) {
		missing := review.NewReview(b.ID, u.ID, 3, "")
		missing.ID = rv.ID + 1000
		assert.ErrorIs(t, repo.Update(ctx, missing), review.ErrReviewNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, missing.ID), review.ErrReviewNotFound)
	})

	t.Run("同一用户重复评论", func(t *testing.T) {
		err := repo.Create(ctx, review.NewReview(b.ID, u.ID, 2, "again"))
		assert.Error(t, err)
	})
}

func TestReviewRepositoryRatingStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewReviewRepository(db)

	b := seedBook(t, db, "Persuasion", "Classic", "12.50")

	sum, count, err := repo.RatingStats(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)
	assert.Equal(t, int64(0), count)

	for i, rating := range []int{5, 4, 4} {
		u := seedUser(t, db, []string{"a@x.com", "b@x.com", "c@x.com"}[i], "u")
		require.NoError(t, repo.Create(ctx, review.NewReview(b.ID, u.ID, rating, "")))
	}

	sum, count, err = repo.RatingStats(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(13), sum)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, "4.3", review.AverageRating(sum, count).String())

	list, err := repo.ListByBook(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestCartRepositoryItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewCartRepository(db)

	u := seedUser(t, db, "c@example.com", "buyer")
	b := seedBook(t, db, "Emma", "Classic", "9.99")

	c := cart.NewCart(u.ID)
	require.NoError(t, repo.Create(ctx, c))
	assert.ErrorIs(t, repo.Create(ctx, cart.NewCart(u.ID)), cart.ErrDuplicateCart)

	item := cart.NewCartItem(c.ID, b.ID, 1)
	require.NoError(t, repo.CreateItem(ctx, item))
	assert.ErrorIs(t, repo.CreateItem(ctx, cart.NewCartItem(c.ID, b.ID, 1)), cart.ErrDuplicateCartItem)

	t.Run("数量为1时减一保持不变", func(t *testing.T) {
		require.NoError(t, repo.AdjustItem(ctx, item.ID, -1))
		stored, err := repo.FindItem(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Quantity)
	})

	t.Run("累加与调整", func(t *testing.T) {
		require.NoError(t, repo.IncrementItem(ctx, c.ID, b.ID, 3))
		require.NoError(t, repo.AdjustItem(ctx, item.ID, -1))

		found, err := repo.FindByUserID(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, 3, found.Items[0].Quantity)
		assert.Equal(t, "Emma", found.Items[0].BookTitle)
		assert.True(t, decimal.RequireFromString("9.99").Equal(found.Items[0].UnitPrice))
	})

	t.Run("删除与清空", func(t *testing.T) {
		require.NoError(t, repo.DeleteItem(ctx, item.ID))
		_, err := repo.FindItem(ctx, item.ID)
		assert.ErrorIs(t, err, cart.ErrCartItemNotFound)

		require.NoError(t, repo.CreateItem(ctx, cart.NewCartItem(c.ID, b.ID, 2)))
		require.NoError(t, repo.ClearItems(ctx, c.ID))
		found, err := repo.FindByUserID(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, found.Items)
	})
}

func TestTxManagerRollsBackOrderAndCart(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := NewCartRepository(db)
	orders := NewOrderRepository(db)
	txm := NewTxManager(db)

	u := seedUser(t, db, "o@example.com", "buyer")
	b := seedBook(t, db, "Emma", "Classic", "9.99")
	c := cart.NewCart(u.ID)
	require.NoError(t, carts.Create(ctx, c))
	require.NoError(t, carts.CreateItem(ctx, cart.NewCartItem(c.ID, b.ID, 2)))

	newOrder := func(no string) *order.Order {
		items := []order.OrderItem{{BookID: b.ID, Quantity: 2, Price: b.Price}}
		return order.NewOrder(no, u.ID, "上海市", items, b.Price.Mul(decimal.NewFromInt(2)))
	}

	errAbort := errors.New("abort")
	err := txm.Transaction(ctx, func(ctx context.Context) error {
		locked, err := carts.LockByUserID(ctx, u.ID)
		if err != nil {
			return err
		}
		if err := orders.Create(ctx, newOrder("ORD-ROLLBACK")); err != nil {
			return err
		}
		if err := carts.ClearItems(ctx, locked.ID); err != nil {
			return err
		}
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	list, err := orders.ListByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	found, err := carts.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 2, found.Items[0].Quantity)

	require.NoError(t, orders.Create(ctx, newOrder("ORD-1")))
	assert.ErrorIs(t, orders.Create(ctx, newOrder("ORD-1")), order.ErrDuplicateOrderNo)
}

func TestBookRepositorySearchAndSummary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewBookRepository(db)

	emma := seedBook(t, db, "Emma", "Classic", "9.99")
	seedBook(t, db, "Dune", "Sci-Fi", "20.00")
	rating := decimal.RequireFromString("4.5")
	require.NoError(t, repo.UpdateRating(ctx, emma.ID, &rating))

	books, total, err := repo.Search(ctx, book.SearchParams{Query: "EMM", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, emma.ID, books[0].ID)

	minRating := decimal.RequireFromString("1")
	_, total, err = repo.Search(ctx, book.SearchParams{MinRating: &minRating, Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "无评分图书不满足最低评分")

	genres, err := repo.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic", "Sci-Fi"}, genres)

	summary, err := repo.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalBooks)
	assert.True(t, rating.Equal(summary.AverageRating))

	require.NoError(t, repo.UpdateRating(ctx, emma.ID, nil))
	stored, err := repo.FindByID(ctx, emma.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Rating)

	// 内容不变的更新不应视为记录不存在
	require.NoError(t, repo.Update(ctx, stored))
	require.NoError(t, repo.Update(ctx, stored))
}

func TestProfileRepositoryUnchangedUpdate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(db)

	u := seedUser(t, db, "p@example.com", "reader")
	p := user.NewProfile(u.ID)
	require.NoError(t, repo.Create(ctx, p))

	stored, err := repo.FindByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, stored))
	require.NoError(t, repo.Update(ctx, stored))
}
