package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mblog/internal/middleware"
)

type RouterDeps struct {
	Auth      *AuthHandler
	Posts     *PostHandler
	Tags      *TagHandler
	Imports   *ImportHandler
	Exports   *ExportHandler
	Render    *RenderHandler
	JWTSecret []byte
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.POST("/auth/login", middleware.RateLimit(time.Second), deps.Auth.Login)

	api.GET("/posts", deps.Posts.List)
	api.GET("/posts/:id", deps.Posts.Get)
	api.GET("/tags", deps.Tags.List)
	api.GET("/stats", deps.Posts.Stats)

	admin := api.Group("")
	admin.Use(middleware.JWTAuth(deps.JWTSecret))
	admin.POST("/posts", deps.Posts.Create)
	admin.PUT("/posts/:id", deps.Posts.Update)
	admin.DELETE("/posts/:id", deps.Posts.Delete)

	admin.POST("/tags", deps.Tags.Create)
	admin.PUT("/tags/:id", deps.Tags.Update)
	admin.DELETE("/tags/:id", deps.Tags.Delete)

	admin.POST("/render/preview", deps.Render.Preview)

	admin.POST("/import/preview", deps.Imports.Preview)
	admin.POST("/import/markdown", deps.Imports.Import)
	admin.POST("/export/bulk", deps.Exports.Bulk)
}
