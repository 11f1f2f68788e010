package app

import (
	httpH "github.com/yungbote/bookshelf-backend/internal/http/handlers"
	httpMW "github.com/yungbote/bookshelf-backend/internal/http/middleware"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	Book     *httpH.BookHandler
	Author   *httpH.AuthorHandler
	Category *httpH.CategoryHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Auth:     httpH.NewAuthHandler(svcs.Auth),
		Book:     httpH.NewBookHandler(svcs.Catalog),
		Author:   httpH.NewAuthorHandler(svcs.Catalog),
		Category: httpH.NewCategoryHandler(svcs.Catalog),
	}
}

func wireMiddleware(log *logger.Logger, svcs Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, svcs.Auth)
}
