package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookoutlet/internal/application/review"
	"github.com/xiebiao/bookoutlet/internal/interface/http/dto"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

// ReviewHandler 书评HTTP处理器
type ReviewHandler struct {
	submit *appreview.SubmitReviewUseCase
	remove *appreview.DeleteReviewUseCase
}

// NewReviewHandler 创建书评处理器
func NewReviewHandler(submit *appreview.SubmitReviewUseCase, remove *appreview.DeleteReviewUseCase) *ReviewHandler {
	return &ReviewHandler{submit: submit, remove: remove}
}

// SubmitReview 提交评论,已评论过则覆盖
// @Summary      提交评论
// @Tags         书评
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.ReviewRequest true "评分与内容"
// @Success      200 {object} response.Response{data=review.SubmitReviewResponse}
// @Router       /api/v1/books/{id}/reviews [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	bookID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.submit.Execute(c.Request.Context(), appreview.SubmitReviewRequest{
		BookID:  bookID,
		UserID:  middleware.MustGetUserID(c),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteReview 删除自己的评论
// @Summary      删除评论
// @Tags         书评
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评论ID"
// @Success      200 {object} response.Response{data=review.DeleteReviewResponse}
// @Failure      200 {object} response.Response "40104 不是评论作者"
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.remove.Execute(c.Request.Context(), reviewID, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
