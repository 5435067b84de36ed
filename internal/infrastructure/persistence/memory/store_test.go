package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookoutlet/internal/domain/book"
	"github.com/xiebiao/bookoutlet/internal/domain/cart"
	"github.com/xiebiao/bookoutlet/internal/domain/order"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

func newBook(t *testing.T, s *Store, title string, price string) *book.Book {
	t.Helper()
	b := book.NewBook(book.Attributes{
		Title:  title,
		Author: "Jane Austen",
		Price:  decimal.RequireFromString(price),
	}, 0)
	require.NoError(t, s.Books().Create(context.Background(), b))
	return b
}

func TestTransactionRollback(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(ctx context.Context) error {
		b := book.NewBook(book.Attributes{Title: "Emma", Author: "Jane Austen"}, 0)
		require.NoError(t, s.Books().Create(ctx, b))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	all, err := s.Books().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTransactionNested(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Transaction(ctx, func(ctx context.Context) error {
		return s.Transaction(ctx, func(ctx context.Context) error {
			return s.Users().Create(ctx, user.NewUser("a@example.com", "hash", "alice"))
		})
	})
	require.NoError(t, err)

	_, err = s.Users().FindByEmail(ctx, "a@example.com")
	assert.NoError(t, err)
}

func TestUniqueConstraints(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.Users().Create(ctx, user.NewUser("a@example.com", "h", "a")))
	err := s.Users().Create(ctx, user.NewUser("a@example.com", "h", "b"))
	assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)

	require.NoError(t, s.Reviews().Create(ctx, review.NewReview(1, 1, 5, "good")))
	err = s.Reviews().Create(ctx, review.NewReview(1, 1, 3, "again"))
	assert.True(t, apperrors.IsConflict(err))

	require.NoError(t, s.Carts().Create(ctx, cart.NewCart(1)))
	err = s.Carts().Create(ctx, cart.NewCart(1))
	assert.ErrorIs(t, err, cart.ErrDuplicateCart)

	o := order.NewOrder("ORD1", 1, "addr", nil, decimal.Zero)
	require.NoError(t, s.Orders().Create(ctx, o))
	err = s.Orders().Create(ctx, order.NewOrder("ORD1", 2, "addr", nil, decimal.Zero))
	assert.ErrorIs(t, err, order.ErrDuplicateOrderNo)
}

func TestCartItemsJoinCurrentBook(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	b := newBook(t, s, "Emma", "12.50")

	c := cart.NewCart(7)
	require.NoError(t, s.Carts().Create(ctx, c))
	require.NoError(t, s.Carts().CreateItem(ctx, cart.NewCartItem(c.ID, b.ID, 2)))

	b.Price = decimal.RequireFromString("10.00")
	require.NoError(t, s.Books().Update(ctx, b))

	got, err := s.Carts().FindByUserID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Emma", got.Items[0].BookTitle)
	assert.True(t, got.TotalPrice().Equal(decimal.RequireFromString("20.00")))
}

func TestAdjustItemKeepsMinimumOne(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c := cart.NewCart(1)
	require.NoError(t, s.Carts().Create(ctx, c))
	item := cart.NewCartItem(c.ID, 1, 1)
	require.NoError(t, s.Carts().CreateItem(ctx, item))

	require.NoError(t, s.Carts().AdjustItem(ctx, item.ID, -1))
	got, err := s.Carts().FindItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
}

func TestIncrementItemConcurrent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	c := cart.NewCart(1)
	require.NoError(t, s.Carts().Create(ctx, c))
	require.NoError(t, s.Carts().CreateItem(ctx, cart.NewCartItem(c.ID, 9, 1)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Carts().IncrementItem(ctx, c.ID, 9, 1)
		}()
	}
	wg.Wait()

	got, err := s.Carts().FindByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 51, got.Items[0].Quantity)
}

func TestSearchSortAndPaging(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	newBook(t, s, "Alpha", "30")
	newBook(t, s, "Beta", "10")
	newBook(t, s, "Gamma", "20")

	books, total, err := s.Books().Search(ctx, book.SearchParams{SortBy: book.SortPriceLow, Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, books, 2)
	assert.Equal(t, "Beta", books[0].Title)
	assert.Equal(t, "Gamma", books[1].Title)

	books, _, err = s.Books().Search(ctx, book.SearchParams{Query: "ALP", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Alpha", books[0].Title)
}

func TestSearchRatingSortNullsLast(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	unrated := newBook(t, s, "Unrated", "1")
	rated := newBook(t, s, "Rated", "1")
	four := decimal.RequireFromString("4.0")
	require.NoError(t, s.Books().UpdateRating(ctx, rated.ID, &four))

	books, _, err := s.Books().Search(ctx, book.SearchParams{SortBy: book.SortRating, Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, rated.ID, books[0].ID)
	assert.Equal(t, unrated.ID, books[1].ID)
}

func TestUpdateDoesNotOverwriteRating(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	b := newBook(t, s, "Emma", "5")
	r := decimal.RequireFromString("3.5")
	require.NoError(t, s.Books().UpdateRating(ctx, b.ID, &r))

	b.Rating = nil
	b.Title = "Emma II"
	require.NoError(t, s.Books().Update(ctx, b))

	got, err := s.Books().FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.Equal(t, "3.5", got.Rating.String())
	assert.Equal(t, "Emma II", got.Title)
}
