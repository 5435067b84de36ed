package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
	"github.com/xiebiao/bookoutlet/pkg/logger"
)

// Response 统一响应结构
// Code是业务错误码（非HTTP状态码），0表示成功
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
//
//	if err := uc.Execute(ctx, req); err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只进日志
	if appErr.Err != nil {
		logger.FromContext(c.Request.Context()).Error("request failed",
			zap.Int("code", appErr.Code),
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Err),
		)
	}

	c.JSON(http.StatusOK, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Fields:  appErr.Fields,
	})
}

// Abort 带HTTP状态码的错误响应并终止后续Handler,供中间件使用
func Abort(c *gin.Context, status int, err error) {
	appErr := apperrors.GetAppError(err)
	c.AbortWithStatusJSON(status, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
	})
}
