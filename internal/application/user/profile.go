package user

import (
	"context"
	"time"

	appbook "github.com/xiebiao/bookoutlet/internal/application/book"
	"github.com/xiebiao/bookoutlet/internal/domain/review"
	"github.com/xiebiao/bookoutlet/internal/domain/user"
)

// ProfileResponse 个人主页:用户、资料与本人的评论
type ProfileResponse struct {
	User           UserInfo                  `json:"user"`
	Bio            string                    `json:"bio"`
	Location       string                    `json:"location"`
	FavoriteGenres string                    `json:"favorite_genres"`
	BirthDate      string                    `json:"birth_date,omitempty"`
	Reviews        []*appbook.ReviewResponse `json:"reviews"`
}

// ProfileUseCase 查看与修改资料
type ProfileUseCase struct {
	userRepo    user.Repository
	userService user.Service
	reviewRepo  review.Repository
}

// NewProfileUseCase 创建资料用例
func NewProfileUseCase(userRepo user.Repository, userService user.Service, reviewRepo review.Repository) *ProfileUseCase {
	return &ProfileUseCase{userRepo: userRepo, userService: userService, reviewRepo: reviewRepo}
}

// Get 查看资料
func (uc *ProfileUseCase) Get(ctx context.Context, userID uint) (*ProfileResponse, error) {
	p, err := uc.userService.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.build(ctx, userID, p)
}

// UpdateProfileRequest 资料修改请求
type UpdateProfileRequest struct {
	UserID         uint
	Bio            string
	Location       string
	FavoriteGenres string
	BirthDate      *time.Time
}

// Update 修改资料,字段一并校验
func (uc *ProfileUseCase) Update(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	p, err := uc.userService.UpdateProfile(ctx, req.UserID, user.ProfileUpdate{
		Bio:            req.Bio,
		Location:       req.Location,
		FavoriteGenres: req.FavoriteGenres,
		BirthDate:      req.BirthDate,
	})
	if err != nil {
		return nil, err
	}
	return uc.build(ctx, req.UserID, p)
}

func (uc *ProfileUseCase) build(ctx context.Context, userID uint, p *user.Profile) (*ProfileResponse, error) {
	u, err := uc.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := uc.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &ProfileResponse{
		User: UserInfo{
			ID:       u.ID,
			Email:    u.Email,
			Nickname: u.Nickname,
		},
		Bio:            p.Bio,
		Location:       p.Location,
		FavoriteGenres: p.FavoriteGenres,
		Reviews:        appbook.ToReviewResponses(reviews),
	}
	if p.BirthDate != nil {
		resp.BirthDate = p.BirthDate.Format("2006-01-02")
	}
	return resp, nil
}
