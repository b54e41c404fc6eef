package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"announceslider/internal/constants"
)

// AdminAuth 管理员认证中间件，校验 Bearer 令牌与配置中的 bcrypt 哈希
func AdminAuth(tokenHash string) gin.HandlerFunc {
	hash := []byte(tokenHash)
	return func(c *gin.Context) {
		if len(hash) == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": 403, "msg": constants.ErrAdminDisabled})
			return
		}

		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" || bcrypt.CompareHashAndPassword(hash, []byte(token)) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": constants.ErrUnauthorized})
			return
		}

		c.Next()
	}
}
