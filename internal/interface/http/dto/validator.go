package dto

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookoutlet/pkg/errors"
)

var registerOnce sync.Once

// RegisterValidator 校验错误使用json/form字段名而不是Go字段名
func RegisterValidator() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form", "uri"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}

// BindError 把ShouldBind的错误转换为AppError
// 校验失败 → 字段级ValidationError;JSON格式错误 → ErrBindError
func BindError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.ErrBindError
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.NewValidation(fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min", "gte":
		return "不能小于" + fe.Param()
	case "max", "lte":
		return "不能大于" + fe.Param()
	case "oneof":
		return "必须是以下之一: " + fe.Param()
	case "numeric", "number":
		return "必须是数字"
	case "datetime":
		return "日期格式应为" + fe.Param()
	default:
		return "格式不正确"
	}
}
