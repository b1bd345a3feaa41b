// File: cmd/server/wire.go
//go:build wireinject
// +build wireinject

package main

import (
	"giventake_backend/internal/app"
	"giventake_backend/internal/category"
	"giventake_backend/internal/collection"
	"giventake_backend/internal/config"
	"giventake_backend/internal/firebase"
	"giventake_backend/internal/jobs"
	"giventake_backend/internal/listing"
	"giventake_backend/internal/platform/database"
	"giventake_backend/internal/platform/logger"
	"giventake_backend/internal/platform/objectstorage"
	"giventake_backend/internal/shared"
	"giventake_backend/internal/stats"
	"giventake_backend/internal/suggest"
	"giventake_backend/internal/user"
	"giventake_backend/internal/wishlist"

	"github.com/google/wire"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config) (*app.Server, func(), error) {
	wire.Build(
		// Platform Layer
		logger.New,
		database.NewGORM,
		firebase.NewFirebaseService,
		objectstorage.NewMinioStorage,
		wire.Bind(new(objectstorage.Service), new(*objectstorage.MinioStorage)),

		// Profiles
		user.NewGORMRepository,
		user.NewService,
		wire.Bind(new(shared.Service), new(user.Service)),
		user.NewHandler,

		// Catalog
		category.NewGORMRepository,
		category.NewService,
		category.NewHandler,

		// Listings and image reconciliation
		listing.NewGORMRepository,
		listing.NewReconciler,
		listing.NewService,
		listing.NewHandler,

		// Collections
		collection.NewGORMRepository,
		collection.NewService,
		collection.NewHandler,

		// Wishlist
		wishlist.NewGORMRepository,
		wishlist.NewService,
		wishlist.NewHandler,

		// AI suggestions
		suggest.NewService,
		suggest.NewHandler,

		// Statistics
		stats.NewService,
		stats.NewHandler,

		// Jobs
		jobs.NewImageSweepJob,

		// Application Layer
		app.NewServer,
	)
	return nil, nil, nil
}
