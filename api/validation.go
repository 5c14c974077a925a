package api

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"daily/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce  sync.Once
	usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,30}$`)
	hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)
)

// RegisterValidators 注册自定义校验规则，并让错误中的字段名使用 JSON 名称
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
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
		v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernameRegex.MatchString(fl.Field().String())
		})
		v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
			return isStrongPassword(fl.Field().String())
		})
		v.RegisterValidation("hexcolor", func(fl validator.FieldLevel) bool {
			return hexColorRegex.MatchString(fl.Field().String())
		})
	})
}

// isStrongPassword 至少 6 位，同时包含字母和数字
func isStrongPassword(s string) bool {
	if len(s) < 6 || len(s) > 72 {
		return false
	}
	var letter, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

// bind 绑定 JSON 请求体，失败时返回带字段信息的校验错误
func bind(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return bindingError(err)
	}
	return nil
}

// bindingError 将绑定错误转换为 apperr.Validation
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
		}
		return apperr.Validation("参数错误", fields...)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperr.Validation("参数错误", apperr.FieldError{Field: typeErr.Field, Message: "类型错误，应为 " + typeErr.Type.String()})
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) {
		return apperr.Validation("请求体不是合法的 JSON")
	}
	return apperr.Validation("参数错误: " + err.Error())
}

// fieldPath 去掉顶层结构体名，如 CreateBillRequest.amount -> amount
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return "长度不能小于 " + fe.Param()
		}
		return "不能小于 " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return "长度不能超过 " + fe.Param()
		}
		return "不能大于 " + fe.Param()
	case "gte":
		return "不能小于 " + fe.Param()
	case "lte":
		return "不能大于 " + fe.Param()
	case "gt":
		return "必须大于 " + fe.Param()
	case "oneof":
		return "取值必须是 [" + fe.Param() + "] 之一"
	case "username":
		return "用户名为 3-30 位字母、数字或下划线"
	case "password":
		return "密码至少 6 位，且同时包含字母和数字"
	case "hexcolor":
		return "颜色格式应为 #RRGGBB"
	case "url":
		return "URL 格式不正确"
	}
	return "格式不正确"
}
