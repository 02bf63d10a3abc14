package router

import (
	"yatube-go/internal/api/handler"
	"yatube-go/internal/api/middleware"
	"yatube-go/internal/config"

	"github.com/gin-gonic/gin"
)

// Setup 注册所有业务路由
// 帖子相关地址沿用 /{username}/{post_id}/ 的站点风格，
// 静态段（/new/、/group/ 等）优先于用户名参数匹配
func Setup(
	r *gin.Engine,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	followHandler *handler.FollowHandler,
	groupHandler *handler.GroupHandler,
	searchHandler *handler.SearchHandler,
	adminMiddleware gin.HandlerFunc,
) {
	// --- 首页（整页缓存）---
	r.GET("/", middleware.PageCache(config.GetFeed().CacheTTLDuration()), postHandler.Index)

	// --- 群组 ---
	r.GET("/group/:slug/", postHandler.GroupFeed)
	r.GET("/groups/", groupHandler.ListGroups)

	// --- 发帖 ---
	newPost := r.Group("/new", middleware.LoginRequired())
	{
		newPost.GET("/", postHandler.NewPostForm)
		newPost.POST("/", postHandler.CreatePost)
	}

	// --- 关注流 ---
	r.GET("/follow/", middleware.LoginRequired(), postHandler.FollowIndex)

	// --- 搜索 ---
	r.GET("/search/", searchHandler.SearchPosts)

	// --- 认证 ---
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.GET("/login/", authHandler.LoginForm)
		auth.POST("/login/", authHandler.Login)
		auth.POST("/logout/", authHandler.Logout)

		auth.GET("/me", middleware.LoginRequired(), authHandler.Me)
	}

	// --- 管理 ---
	admin := r.Group("/admin", middleware.LoginRequired(), adminMiddleware)
	{
		admin.POST("/groups", groupHandler.CreateGroup)
		admin.DELETE("/groups/:slug", groupHandler.DeleteGroup)
		admin.DELETE("/users/:id", userHandler.DeleteUser)
	}

	// --- 作者主页与帖子 ---
	r.GET("/:username/", middleware.CurrentUser(), userHandler.Profile)
	r.GET("/:username/follow/", middleware.LoginRequired(), followHandler.Follow)
	r.GET("/:username/unfollow/", middleware.LoginRequired(), followHandler.Unfollow)
	r.GET("/:username/:post_id/", postHandler.PostView)

	postAuth := r.Group("/:username/:post_id", middleware.LoginRequired())
	{
		postAuth.POST("/comment/", commentHandler.AddComment)
		postAuth.GET("/edit/", postHandler.EditPostForm)
		postAuth.POST("/edit/", postHandler.EditPost)
	}
}
