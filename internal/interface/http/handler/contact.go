package handler

import (
	"github.com/gin-gonic/gin"

	appcontact "github.com/xiebiao/bookoutlet/internal/application/contact"
	"github.com/xiebiao/bookoutlet/internal/interface/http/dto"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

// ContactHandler 访客留言
type ContactHandler struct {
	submit *appcontact.SubmitContactUseCase
}

// NewContactHandler 创建留言处理器
func NewContactHandler(submit *appcontact.SubmitContactUseCase) *ContactHandler {
	return &ContactHandler{submit: submit}
}

// Submit 提交留言
// @Summary      联系我们
// @Tags         留言
// @Accept       json
// @Produce      json
// @Param        request body dto.ContactRequest true "留言"
// @Success      200 {object} response.Response{data=contact.SubmitContactResponse}
// @Router       /api/v1/contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.submit.Execute(c.Request.Context(), appcontact.SubmitContactRequest{
		Name:        req.Name,
		Email:       req.Email,
		VerifyEmail: req.VerifyEmail,
		Text:        req.Text,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
