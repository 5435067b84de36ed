package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookoutlet/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Fields  map[string]string `json:"fields"`
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "memory"},
		JWT: config.JWTConfig{
			Secret:             "test-secret",
			AccessTokenExpire:  time.Hour,
			RefreshTokenExpire: 24 * time.Hour,
		},
		Cache: config.CacheConfig{StatsTTL: time.Minute},
	}
	engine, cleanup, err := newApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return engine
}

func call(t *testing.T, r http.Handler, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode(t *testing.T, env envelope, dest interface{}) {
	t.Helper()
	require.Equal(t, 0, env.Code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	_, env := call(t, r, http.MethodPost, "/api/v1/users/register", "", gin.H{
		"email": email, "password": "secret123", "nickname": "Reader",
	})
	require.Equal(t, 0, env.Code, env.Message)

	_, env = call(t, r, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"email": email, "password": "secret123",
	})
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, env, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func TestPurchaseFlow(t *testing.T) {
	r := newTestEngine(t)
	token := login(t, r, "reader@example.com")

	_, env := call(t, r, http.MethodPost, "/api/v1/books", token, gin.H{
		"title": "Pride and Prejudice", "author": "Jane Austen", "genre": "Classic", "price": "12.50",
	})
	var published struct {
		ID uint `json:"id"`
	}
	decode(t, env, &published)

	_, env = call(t, r, http.MethodPost, fmt.Sprintf("/api/v1/books/%d/reviews", published.ID), token, gin.H{
		"rating": 5, "comment": "A timeless classic.",
	})
	var reviewed struct {
		BookRating  *float64 `json:"book_rating"`
		ReviewCount int64    `json:"review_count"`
	}
	decode(t, env, &reviewed)
	require.NotNil(t, reviewed.BookRating)
	assert.Equal(t, 5.0, *reviewed.BookRating)
	assert.Equal(t, int64(1), reviewed.ReviewCount)

	_, env = call(t, r, http.MethodPost, "/api/v1/cart/items", token, gin.H{
		"book_id": published.ID, "quantity": 2,
	})
	require.Equal(t, 0, env.Code, env.Message)

	_, env = call(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{
		"shipping_address": "1 Main St, Bath",
	})
	var placed struct {
		ID          uint   `json:"id"`
		TotalAmount string `json:"total_amount"`
		Status      string `json:"status"`
	}
	decode(t, env, &placed)
	assert.Equal(t, "25.00", placed.TotalAmount)
	assert.Equal(t, "pending", placed.Status)

	_, env = call(t, r, http.MethodGet, "/api/v1/cart", token, nil)
	var cartView struct {
		Items []json.RawMessage `json:"items"`
	}
	decode(t, env, &cartView)
	assert.Empty(t, cartView.Items)

	payPath := fmt.Sprintf("/api/v1/orders/%d/payment", placed.ID)
	for i, already := range []bool{false, true} {
		_, env = call(t, r, http.MethodPost, payPath, token, nil)
		var paid struct {
			AlreadyProcessed bool `json:"already_processed"`
			Order            struct {
				PaymentStatus bool   `json:"payment_status"`
				Status        string `json:"status"`
			} `json:"order"`
		}
		decode(t, env, &paid)
		assert.Equal(t, already, paid.AlreadyProcessed, "第%d次支付", i+1)
		assert.True(t, paid.Order.PaymentStatus)
		assert.Equal(t, "confirmed", paid.Order.Status)
	}
}

func TestPlaceOrderWithEmptyCart(t *testing.T) {
	r := newTestEngine(t)
	token := login(t, r, "reader@example.com")

	status, env := call(t, r, http.MethodPost, "/api/v1/orders", token, gin.H{"shipping_address": "X"})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, apperrors.ErrEmptyCart.Code, env.Code)
}

func TestPublishBookReportsAllFields(t *testing.T) {
	r := newTestEngine(t)
	token := login(t, r, "reader@example.com")

	_, env := call(t, r, http.MethodPost, "/api/v1/books", token, gin.H{
		"title": " Emma", "author": "jane", "price": "-1",
	})
	assert.Equal(t, apperrors.ErrInvalidParams.Code, env.Code)
	assert.Contains(t, env.Fields, "title")
	assert.Contains(t, env.Fields, "author")
	assert.Contains(t, env.Fields, "price")
}

func TestAuthRequired(t *testing.T) {
	r := newTestEngine(t)

	status, env := call(t, r, http.MethodGet, "/api/v1/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.ErrUnauthorized.Code, env.Code)

	status, _ = call(t, r, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestLogoutRevokesToken(t *testing.T) {
	r := newTestEngine(t)
	token := login(t, r, "reader@example.com")

	status, env := call(t, r, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, 0, env.Code)

	_, env = call(t, r, http.MethodPost, "/api/v1/users/logout", token, nil)
	require.Equal(t, 0, env.Code, env.Message)

	status, _ = call(t, r, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
