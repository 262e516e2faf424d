package handlers

import (
	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'.
// obj 可能来自页面缓存、被多个请求共享，先复制一份再注入请求相关字段
func Render(c *gin.Context, code int, name string, obj gin.H) {
	data := gin.H{}
	for key, value := range obj {
		data[key] = value
	}

	if user := middleware.CurrentUser(c); user != nil {
		data["CurrentUser"] = user
	}
	data["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, data)
}

// RenderError 渲染错误页
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}
