package middleware

import (
	"net/http"
	"net/url"

	"yatube/internal/models"
	"yatube/internal/repository"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser 从会话取出 user_id 并把用户对象放进请求上下文
func LoadUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID, ok := session.Get("user_id").(uint)
		if ok {
			user, err := users.GetByID(c.Request.Context(), userID)
			if err == nil {
				c.Set(CheckUserKey, user)
			}
		}
		c.Next()
	}
}

// AuthRequired 要求已登录；未登录重定向到登录页并带上回跳地址
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			next := url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, "/auth/login/?next="+next)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser 取当前登录用户，未登录返回 nil
func CurrentUser(c *gin.Context) *models.User {
	if value, exists := c.Get(CheckUserKey); exists {
		if user, ok := value.(*models.User); ok {
			return user
		}
	}
	return nil
}
