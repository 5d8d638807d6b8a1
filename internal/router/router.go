package router

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API) *gin.Engine {
	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/signup", api.Signup)
		auth.POST("/login", api.Login)
	}

	blogs := r.Group("/blogs")
	{
		// 公开路由：仅已发布文章可见
		blogs.GET("", api.ListPublishedBlogs)
		blogs.GET("/:id", api.GetPublishedBlog)

		// 需要认证的路由
		authed := blogs.Group("")
		authed.Use(api.AuthRequired())
		{
			authed.GET("/my-blogs", api.ListMyBlogs)
			authed.POST("", api.CreateBlog)
			authed.PUT("/:id", api.UpdateBlog)
			authed.PATCH("/:id/state", api.UpdateBlogState)
			authed.DELETE("/:id", api.DeleteBlog)
		}
	}

	return r
}
