package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextUserID 认证通过后，context里存放调用者ID（string）的键
const ContextUserID = "userID"

var (
	errNoToken      = errors.New("请求未包含授权令牌")
	errTokenFormat  = errors.New("授权令牌格式不正确")
	errInvalidToken = errors.New("无效的授权令牌")
)

// 流程：1、从http请求中取出"Authorization"字段 2、验证"Bearer [token]" 3、通过secretKey验证token有效性 4、取出字符串形式的user_id
func parseBearer(c *gin.Context, secretKey []byte) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errNoToken
	}
	// 通常Token的格式是 "Bearer [token]"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errTokenFormat
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		// 确保签名方法是对称加密族
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errInvalidToken
	}
	return userID, nil
}

// AuthMiddleware 必须登录的路由
func AuthMiddleware(secret string) gin.HandlerFunc {
	secretKey := []byte(secret)
	return func(c *gin.Context) {
		userID, err := parseBearer(c, secretKey)
		if err != nil {
			// 立刻Abort，阻止后续的任何处理器被执行
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(ContextUserID, userID)
		c.Next()
	}
}

// OptionalAuthMiddleware 匿名也能访问的路由：带了有效token就识别出观看者，没带按匿名处理，带了无效token仍然拒绝
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	secretKey := []byte(secret)
	return func(c *gin.Context) {
		userID, err := parseBearer(c, secretKey)
		switch {
		case errors.Is(err, errNoToken):
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		default:
			c.Set(ContextUserID, userID)
		}
		c.Next()
	}
}
