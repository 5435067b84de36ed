package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookoutlet/internal/domain/user"
	"github.com/xiebiao/bookoutlet/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
	"github.com/xiebiao/bookoutlet/pkg/jwt"
)

type fixture struct {
	store    *memory.Store
	sessions *memory.SessionStore
	jwt      *jwt.Manager
	register *RegisterUseCase
	login    *LoginUseCase
	logout   *LogoutUseCase
	profile  *ProfileUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	manager := jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	users := user.NewServiceWithCost(store.Users(), store.Profiles(), bcrypt.MinCost)
	return &fixture{
		store:    store,
		sessions: sessions,
		jwt:      manager,
		register: NewRegisterUseCase(store, users),
		login:    NewLoginUseCase(users, manager, sessions, 24*time.Hour),
		logout:   NewLogoutUseCase(sessions, manager),
		profile:  NewProfileUseCase(store.Users(), users, store.Reviews()),
	}
}

func (f *fixture) mustRegister(t *testing.T, email string) *RegisterResponse {
	t.Helper()
	resp, err := f.register.Execute(context.Background(), RegisterRequest{
		Email: email, Password: "secret123", Nickname: "Reader",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("注册并创建空资料", func(t *testing.T) {
		resp := f.mustRegister(t, "a@example.com")
		assert.NotZero(t, resp.ID)

		p, err := f.store.Profiles().FindByUserID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Empty(t, p.Bio)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{Email: "a@example.com", Password: "secret123", Nickname: "Other"})
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})

	t.Run("字段一并校验", func(t *testing.T) {
		_, err := f.register.Execute(ctx, RegisterRequest{Email: "bad", Password: "short", Nickname: "x"})
		require.Error(t, err)
		fields := apperrors.GetAppError(err).Fields
		assert.Len(t, fields, 3)
	})
}

func TestLoginAndLogout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	registered := f.mustRegister(t, "b@example.com")

	_, err := f.login.Execute(ctx, LoginRequest{Email: "b@example.com", Password: "wrong1234"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	resp, err := f.login.Execute(ctx, LoginRequest{Email: "b@example.com", Password: "secret123", ClientIP: "127.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)

	session, err := f.sessions.GetSession(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", session["ip"])

	require.NoError(t, f.logout.Execute(ctx, registered.ID, resp.AccessToken))

	blacklisted, err := f.sessions.IsInBlacklist(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, blacklisted, "登出后Token进入黑名单")

	_, err = f.sessions.GetSession(ctx, registered.ID)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "会话已删除")
}

func TestProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	registered := f.mustRegister(t, "c@example.com")

	got, err := f.profile.Get(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "c@example.com", got.User.Email)
	assert.Empty(t, got.Reviews)

	birth := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	updated, err := f.profile.Update(ctx, UpdateProfileRequest{
		UserID:         registered.ID,
		Bio:            "Reader of classics",
		Location:       "Bath",
		FavoriteGenres: "Classic",
		BirthDate:      &birth,
	})
	require.NoError(t, err)
	assert.Equal(t, "Bath", updated.Location)
	assert.Equal(t, "1990-05-01", updated.BirthDate)

	future := time.Now().AddDate(1, 0, 0)
	_, err = f.profile.Update(ctx, UpdateProfileRequest{UserID: registered.ID, BirthDate: &future})
	require.Error(t, err)
	assert.Contains(t, apperrors.GetAppError(err).Fields, "birth_date")
}
