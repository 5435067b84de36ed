package book

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

func validBook() *Book {
	return NewBook(Attributes{
		Title:  "Pride and Prejudice",
		Author: "Jane Austen",
		Genre:  "Classic",
		Price:  decimal.RequireFromString("12.50"),
	}, 1)
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.Equal(t, apperrors.ErrCodeInvalidParams, appErr.Code)
	return appErr.Fields
}

func TestValidateAcceptsValidBook(t *testing.T) {
	assert.NoError(t, Validate(validBook()))

	b := validBook()
	b.Author = "J. R. R. Tolkien"
	assert.NoError(t, Validate(b), "作者允许句点")

	b.Author = "Jane\u00a0Austen"
	assert.NoError(t, Validate(b), "不间断空格视为空白")

	b.Author = "Jane\tAusten"
	assert.NoError(t, Validate(b), "制表符视为空白")
}

func TestValidateTitle(t *testing.T) {
	cases := map[string]string{
		"空书名":    "",
		"只有空白":   "   ",
		"小写开头":   "emma",
		"前导空格":   " Emma",
		"超过100字": "A" + strings.Repeat("a", 100),
	}
	for name, title := range cases {
		t.Run(name, func(t *testing.T) {
			b := validBook()
			b.Title = title
			assert.Contains(t, fieldsOf(t, Validate(b)), "title")
		})
	}
}

func TestValidateAuthor(t *testing.T) {
	cases := map[string]string{
		"单个单词":     "Solo",
		"小写单词":     "john doe",
		"第二个小写":    "John doe",
		"含数字":      "John Doe2",
		"含连字符":     "Mary-Jane Watson",
		"非ASCII字母": "José Saramago",
	}
	for name, author := range cases {
		t.Run(name, func(t *testing.T) {
			b := validBook()
			b.Author = author
			assert.Contains(t, fieldsOf(t, Validate(b)), "author")
		})
	}
}

func TestValidateReportsAllFields(t *testing.T) {
	b := validBook()
	b.Title = ""
	b.Author = "Solo"
	b.Price = decimal.NewFromInt(-1)
	b.CopiesAvailable = -1
	b.ISBN = strings.Repeat("9", 14)

	fields := fieldsOf(t, Validate(b))
	assert.Len(t, fields, 5)
	for _, f := range []string{"title", "author", "price", "copies_available", "isbn"} {
		assert.Contains(t, fields, f)
	}
}

func TestValidateRatingRange(t *testing.T) {
	b := validBook()
	over := decimal.RequireFromString("5.1")
	b.SetRating(&over)
	assert.Contains(t, fieldsOf(t, Validate(b)), "rating")

	top := decimal.NewFromInt(5)
	b.SetRating(&top)
	assert.NoError(t, Validate(b))
}

func TestUpdateInfoKeepsRating(t *testing.T) {
	b := validBook()
	r := decimal.RequireFromString("4.5")
	b.SetRating(&r)

	b.UpdateInfo(Attributes{Title: "Emma", Author: "Jane Austen", Price: decimal.NewFromInt(3)})

	require.NotNil(t, b.Rating)
	assert.True(t, b.Rating.Equal(r))
	assert.Equal(t, "Emma", b.Title)
}

func TestNormalizeSearch(t *testing.T) {
	p := NormalizeSearch(SearchParams{Page: 0, PageSize: 1000, SortBy: "bogus"})
	assert.Equal(t, 1, p.Page)
	assert.LessOrEqual(t, p.PageSize, 100)
	assert.Equal(t, SortNewest, p.SortBy)
}
