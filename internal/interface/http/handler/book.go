package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookoutlet/internal/application/book"
	"github.com/xiebiao/bookoutlet/internal/interface/http/dto"
	"github.com/xiebiao/bookoutlet/internal/interface/http/middleware"
	"github.com/xiebiao/bookoutlet/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publish *appbook.PublishBookUseCase
	update  *appbook.UpdateBookUseCase
	search  *appbook.SearchBooksUseCase
	detail  *appbook.GetBookUseCase
	catalog *appbook.CatalogJSONUseCase
	stats   *appbook.StatsUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publish *appbook.PublishBookUseCase,
	update *appbook.UpdateBookUseCase,
	search *appbook.SearchBooksUseCase,
	detail *appbook.GetBookUseCase,
	catalog *appbook.CatalogJSONUseCase,
	stats *appbook.StatsUseCase,
) *BookHandler {
	return &BookHandler{
		publish: publish,
		update:  update,
		search:  search,
		detail:  detail,
		catalog: catalog,
		stats:   stats,
	}
}

// PublishBook 发布图书
// @Summary      发布图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=book.BookResponse}
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.publish.Execute(c.Request.Context(), appbook.PublishBookRequest{
		UserID:     middleware.MustGetUserID(c),
		Attributes: req.Attributes(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// UpdateBook 修改图书,只有发布者可以修改
// @Summary      修改图书
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=book.BookResponse}
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	bookID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}

	result, err := h.update.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		UserID:     middleware.MustGetUserID(c),
		BookID:     bookID,
		Attributes: req.Attributes(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SearchBooks 图书搜索
// @Summary      图书列表
// @Description  书名/作者模糊匹配,类型、价格、评分过滤,排序与分页
// @Tags         图书
// @Produce      json
// @Param        q          query string false "关键字"
// @Param        genre      query string false "类型"
// @Param        min_price  query string false "最低价格"
// @Param        max_price  query string false "最高价格"
// @Param        min_rating query string false "最低评分"
// @Param        sort       query string false "newest|price_low|price_high|rating|title"
// @Param        page       query int    false "页码"
// @Param        page_size  query int    false "每页数量"
// @Success      200 {object} response.Response{data=book.SearchBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	var q dto.SearchBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, dto.BindError(err))
		return
	}
	minPrice, maxPrice, minRating, err := q.Decimals()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.search.Execute(c.Request.Context(), appbook.SearchBooksRequest{
		Query:     q.Query,
		Genre:     q.Genre,
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		MinRating: minRating,
		SortBy:    q.Sort,
		Page:      q.Page,
		PageSize:  q.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情,登录用户额外返回自己的评论
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=book.BookDetailResponse}
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	bookID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.detail.Execute(c.Request.Context(), bookID, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CatalogJSON 全部图书精简列表
// @Summary      图书JSON目录
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=[]book.CatalogItem}
// @Router       /api/v1/books/json [get]
func (h *BookHandler) CatalogJSON(c *gin.Context) {
	result, err := h.catalog.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Stats 目录统计
// @Summary      目录统计
// @Tags         图书
// @Produce      json
// @Success      200 {object} response.Response{data=book.StatsResponse}
// @Router       /api/v1/stats [get]
func (h *BookHandler) Stats(c *gin.Context) {
	result, err := h.stats.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
