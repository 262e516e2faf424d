package router

import (
	"yatube/internal/handlers"
	"yatube/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	profileHandler *handlers.ProfileHandler,
	aboutHandler *handlers.AboutHandler,
) {
	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Index)                          // 首页 - 全部文章
	r.GET("/group/:slug/", postHandler.GroupPosts)         // 分组下的文章列表
	r.GET("/profile/:username/", profileHandler.Profile)   // 作者主页
	r.GET("/posts/:id/", postHandler.Detail)               // 文章详情页
	r.GET("/about/author/", aboutHandler.Author)           // 关于作者
	r.GET("/about/tech/", aboutHandler.Tech)               // 技术栈

	r.GET("/auth/signup/", authHandler.ShowSignup) // 注册页面
	r.POST("/auth/signup/", authHandler.Signup)    // 提交注册
	r.GET("/auth/login/", authHandler.ShowLogin)   // 登录页面
	r.POST("/auth/login/", authHandler.Login)      // 提交登录
	r.GET("/auth/logout/", authHandler.Logout)     // 退出登录

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)                     // 发布文章页面
		authorized.POST("/create/", postHandler.Create)                        // 提交发布文章
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)               // 编辑文章页面
		authorized.POST("/posts/:id/edit/", postHandler.Edit)                  // 提交文章更新
		authorized.POST("/posts/:id/comment/", postHandler.AddComment)         // 发表评论
		authorized.GET("/follow/", postHandler.FollowIndex)                    // 关注流
		authorized.GET("/profile/:username/follow/", profileHandler.Follow)    // 关注作者
		authorized.GET("/profile/:username/unfollow/", profileHandler.Unfollow) // 取消关注
	}
}
