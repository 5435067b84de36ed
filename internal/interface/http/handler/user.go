package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/bookoutlet/internal/application/user"
	"github.com/xiebiao/bookoutlet/internal/interface/http/dto"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

// UserHandler 用户HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应
type UserHandler struct {
	register *appuser.RegisterUseCase
	login    *appuser.LoginUseCase
	logout   *appuser.LogoutUseCase
	profile  *appuser.ProfileUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	register *appuser.RegisterUseCase,
	login *appuser.LoginUseCase,
	logout *appuser.LogoutUseCase,
	profile *appuser.ProfileUseCase,
) *UserHandler {
	return &UserHandler{
		register: register,
		login:    login,
		logout:   logout,
		profile:  profile,
	}
}

// Register 用户注册
// @Summary      用户注册
// @Description  创建账号并初始化空的个人资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.RegisterRequest true "注册信息"
// @Success      200 {object} response.Response{data=user.RegisterResponse} "注册成功"
// @Failure      200 {object} response.Response "40003 邮箱已存在"
// @Router       /api/v1/users/register [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.register.Execute(c.Request.Context(), appuser.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回JWT Token
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=user.LoginResponse} "登录成功"
// @Router       /api/v1/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.login.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 用户登出,当前Token加入黑名单
// @Summary      用户登出
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	err := h.logout.Execute(c.Request.Context(), middleware.MustGetUserID(c), middleware.GetAccessToken(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetProfile 个人资料与本人的评论
// @Summary      查看个人资料
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=user.ProfileResponse}
// @Router       /api/v1/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	result, err := h.profile.Get(c.Request.Context(), middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateProfile 修改个人资料
// @Summary      修改个人资料
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.UpdateProfileRequest true "资料"
// @Success      200 {object} response.Response{data=user.ProfileResponse}
// @Router       /api/v1/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	birthDate, err := req.ParseBirthDate()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.profile.Update(c.Request.Context(), appuser.UpdateProfileRequest{
		UserID:         middleware.MustGetUserID(c),
		Bio:            req.Bio,
		Location:       req.Location,
		FavoriteGenres: req.FavoriteGenres,
		BirthDate:      birthDate,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
