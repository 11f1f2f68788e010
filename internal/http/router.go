package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/bookshelf-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bookshelf-backend/internal/http/middleware"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Metrics *observability.Metrics

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	BookHandler     *httpH.BookHandler
	AuthorHandler   *httpH.AuthorHandler
	CategoryHandler *httpH.CategoryHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.CORS())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}

		// Catalog reads (public)
		if cfg.BookHandler != nil {
			api.GET("/books", cfg.BookHandler.List)
			api.GET("/books/:id", cfg.BookHandler.Get)
			api.GET("/books/:id/ratings", cfg.BookHandler.ListRatings)
		}
		if cfg.AuthorHandler != nil {
			api.GET("/authors", cfg.AuthorHandler.List)
			api.GET("/authors/:id", cfg.AuthorHandler.Get)
		}
		if cfg.CategoryHandler != nil {
			api.GET("/categories", cfg.CategoryHandler.List)
			api.GET("/categories/:id", cfg.CategoryHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
			protected.POST("/logout_all", cfg.AuthHandler.LogoutAll)
		}

		if cfg.BookHandler != nil {
			protected.POST("/books", cfg.BookHandler.Create)
			protected.PATCH("/books/:id", cfg.BookHandler.Update)
			protected.DELETE("/books/:id", cfg.BookHandler.Delete)

			protected.POST("/books/:id/ratings", cfg.BookHandler.SubmitRating)

			protected.POST("/books/:id/authors/:authorID", cfg.BookHandler.AddAuthor)
			protected.DELETE("/books/:id/authors/:authorID", cfg.BookHandler.RemoveAuthor)
			protected.PUT("/books/:id/authors", cfg.BookHandler.ReplaceAuthors)

			protected.POST("/books/:id/categories/:categoryID", cfg.BookHandler.AddCategory)
			protected.DELETE("/books/:id/categories/:categoryID", cfg.BookHandler.RemoveCategory)
			protected.PUT("/books/:id/categories", cfg.BookHandler.ReplaceCategories)
		}

		if cfg.AuthorHandler != nil {
			protected.POST("/authors", cfg.AuthorHandler.Create)
			protected.PATCH("/authors/:id", cfg.AuthorHandler.Update)
			protected.DELETE("/authors/:id", cfg.AuthorHandler.Delete)
		}

		if cfg.CategoryHandler != nil {
			protected.POST("/categories", cfg.CategoryHandler.Create)
			protected.PATCH("/categories/:id", cfg.CategoryHandler.Update)
			protected.DELETE("/categories/:id", cfg.CategoryHandler.Delete)
		}
	}

	return r
}
