package app

import (
	"gorm.io/gorm"

	redisclient "github.com/yungbote/bookshelf-backend/internal/clients/redis"
	dataagg "github.com/yungbote/bookshelf-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/bookshelf-backend/internal/domain/aggregates"
	"github.com/yungbote/bookshelf-backend/internal/observability"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/services"
)

type Aggregates struct {
	Rating    domainagg.RatingAggregator
	Relations domainagg.RelationSynchronizer
	Deleter   domainagg.CascadeDeleter
}

type Services struct {
	Auth    services.AuthService
	Catalog services.CatalogService
}

func wireAggregates(db *gorm.DB, log *logger.Logger, repos Repos, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := dataagg.BaseDeps{
		DB:    db,
		Log:   log,
		Hooks: dataagg.NewObservabilityHooks(metrics),
	}
	return Aggregates{
		Rating: dataagg.NewRatingAggregator(dataagg.RatingAggregatorDeps{
			Base:    base,
			Books:   repos.Book,
			Ratings: repos.Rating,
		}),
		Relations: dataagg.NewRelationSynchronizer(dataagg.RelationSynchronizerDeps{
			Base:           base,
			Books:          repos.Book,
			BookAuthors:    repos.BookAuthor,
			BookCategories: repos.BookCategory,
		}),
		Deleter: dataagg.NewCascadeDeleter(dataagg.CascadeDeleterDeps{
			Base:           base,
			Books:          repos.Book,
			Authors:        repos.Author,
			Categories:     repos.Category,
			Ratings:        repos.Rating,
			BookAuthors:    repos.BookAuthor,
			BookCategories: repos.BookCategory,
		}),
	}
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	repos Repos,
	aggs Aggregates,
	cache redisclient.BookCache,
) Services {
	log.Info("Wiring services...")
	return Services{
		Auth: services.NewAuthService(
			db,
			log,
			repos.User,
			repos.UserToken,
			cfg.JWTSecretKey,
			cfg.AccessTokenTTL,
			cfg.RefreshTokenTTL,
		),
		Catalog: services.NewCatalogService(
			db,
			log,
			repos.Book,
			repos.Author,
			repos.Category,
			repos.Rating,
			aggs.Rating,
			aggs.Relations,
			aggs.Deleter,
			cache,
		),
	}
}
