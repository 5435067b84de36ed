package dto

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

func TestBindErrorUsesJSONNames(t *testing.T) {
	RegisterValidator()

	err := binding.Validator.ValidateStruct(&AddToCartRequest{Quantity: 1000})
	require.Error(t, err)

	bindErr := BindError(err)
	assert.True(t, apperrors.IsValidation(bindErr))
	fields := apperrors.GetAppError(bindErr).Fields
	assert.Equal(t, "不能为空", fields["book_id"])
	assert.Equal(t, "不能大于999", fields["quantity"])
}

func TestBindErrorMalformedBody(t *testing.T) {
	assert.ErrorIs(t, BindError(errors.New("unexpected EOF")), apperrors.ErrBindError)
}

func TestUpdateCartItemAction(t *testing.T) {
	RegisterValidator()

	assert.NoError(t, binding.Validator.ValidateStruct(&UpdateCartItemRequest{Action: "decrease"}))

	err := BindError(binding.Validator.ValidateStruct(&UpdateCartItemRequest{Action: "double"}))
	assert.Contains(t, apperrors.GetAppError(err).Fields, "action")
}

func TestSearchBooksQueryDecimals(t *testing.T) {
	minPrice, maxPrice, minRating, err := SearchBooksQuery{MinPrice: "5", MinRating: "4.5"}.Decimals()
	require.NoError(t, err)
	assert.Equal(t, "5", minPrice.String())
	assert.Nil(t, maxPrice)
	assert.Equal(t, "4.5", minRating.String())

	_, _, _, err = SearchBooksQuery{MaxPrice: "cheap"}.Decimals()
	assert.Contains(t, apperrors.GetAppError(err).Fields, "max_price")
}

func TestParseBirthDate(t *testing.T) {
	d, err := UpdateProfileRequest{}.ParseBirthDate()
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = UpdateProfileRequest{BirthDate: "1990-05-01"}.ParseBirthDate()
	require.NoError(t, err)
	assert.Equal(t, 1990, d.Year())

	_, err = UpdateProfileRequest{BirthDate: "01/05/1990"}.ParseBirthDate()
	assert.True(t, apperrors.IsValidation(err))
}
