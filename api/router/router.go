package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"linkhive/api/handlers"
	"linkhive/api/middleware"
	"linkhive/db"
	_ "linkhive/docs"
	"linkhive/eventbus"
	"linkhive/repositories"
	"linkhive/services"
)

func New(bus eventbus.EventBus) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestLoggingMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		bookmarks := repositories.NewBookmarkRepository(db.Database())
		tags := repositories.NewTagRepository(db.Database())
		settings := repositories.NewSettingRepository(db.Database())
		vocab := services.NewVocabularyService(
			repositories.NewVocabularyRepository(db.Client(), db.Database()))

		api.POST("/bookmarks", handlers.CreateBookmarkHandler(bookmarks, bus))
		api.GET("/bookmarks", handlers.ListBookmarksByStatusHandler(bookmarks))
		api.GET("/bookmarks/:id", handlers.GetBookmarkHandler(bookmarks))
		api.POST("/bookmarks/reprocess", handlers.ReprocessFailedHandler(bus))

		api.GET("/tags", handlers.ListTagsHandler(tags))
		api.POST("/admin/tags/migrate", handlers.MigrateVocabularyHandler(vocab))
		api.PUT("/admin/prompts/:name", handlers.UpdatePromptHandler(settings))
	}

	return r
}
