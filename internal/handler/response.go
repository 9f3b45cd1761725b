package handler

import (
	"Orion_Tube/internal/dto"
	"Orion_Tube/internal/middleware"
	"Orion_Tube/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
	// 参数校验失败时，字段名 -> 原因
	Fields map[string]string `json:"fields,omitempty"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// sendBindError gin的binding校验失败时返回validator.ValidationErrors，逐字段列出失败的约束
func sendBindError(c *gin.Context, logCtx *logrus.Entry, err error) {
	logCtx.WithError(err).Warn("请求参数解析失败")
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[lowerFirst(fe.Field())] = fmt.Sprintf("不满足%s约束", fe.Tag())
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "参数校验失败", Fields: fields})
		return
	}
	sendErrorResponse(c, http.StatusBadRequest, "无效的参数")
}

// sendServiceError 把service层的错误映射成状态码：404/403/400，其余一律500且不向外暴露细节
func sendServiceError(c *gin.Context, logCtx *logrus.Entry, err error, action string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		logCtx.WithError(err).Warn(action + "参数校验失败")
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:  "参数校验失败",
			Fields: map[string]string{vErr.Field: vErr.Message},
		})
	case errors.Is(err, service.ErrNotFound):
		logCtx.WithError(err).Warn(action + "失败")
		sendErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		logCtx.WithError(err).Warn(action + "失败")
		sendErrorResponse(c, http.StatusForbidden, err.Error())
	default:
		logCtx.WithError(err).Error(action + "失败")
		sendErrorResponse(c, http.StatusInternalServerError, action+"失败")
	}
}

// currentUserID 必须登录的路由里取调用者ID，理论上中间件已经拦截了未登录请求
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		sendErrorResponse(c, http.StatusUnauthorized, "用户未认证")
		return "", false
	}
	return userID, true
}

// viewerID 匿名可访问的路由里取观看者ID，匿名返回空串
func viewerID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func toToggleResponse(result service.ToggleResult) dto.ToggleResponse {
	return dto.ToggleResponse{Active: result.Active, ConflictIgnored: result.ConflictIgnored}
}
