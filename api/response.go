package api

import (
	"net/http"

	"daily/apperr"
	"daily/service"

	"github.com/gin-gonic/gin"
)

// Response 通用响应结构
type Response struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message,omitempty"`
	Data       any                 `json:"data,omitempty"`
	Pagination *service.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Success bool                `json:"success" example:"false"`
	Message string              `json:"message" example:"参数错误"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Reason  string              `json:"reason,omitempty" example:"expired"`
}

// Success 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// SuccessWithMessage 带消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: "创建成功", Data: data})
}

// Paged 分页列表响应
func Paged(c *gin.Context, items any, p service.Pagination) {
	c.JSON(http.StatusOK, Response{Success: true, Data: items, Pagination: &p})
}

// Fail 记录错误并中止，由 middleware.ErrorHandler 统一渲染
func Fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}
