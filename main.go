package main

import (
	"context"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/thebrand/storefront-go/config"
	"github.com/thebrand/storefront-go/database"
	"github.com/thebrand/storefront-go/handlers"
	"github.com/thebrand/storefront-go/routes"
	"github.com/thebrand/storefront-go/store"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "storefront").Logger()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.Connect(ctx,
		config.GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		config.GetEnv("MONGODB_DATABASE", "thebrand"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Disconnect(context.Background())
	logger.Info().Msg("connected to MongoDB")

	// Wire services and routes
	catalog := db.Catalog()
	carts := db.Carts()
	h := &handlers.Handler{
		Catalog: catalog,
		Users:   db.Users(),
		Cart:    store.NewCartService(carts, catalog, logger),
		Orders:  store.NewOrderService(carts, catalog, db.Orders(), logger),
		Reviews: store.NewReviewService(catalog),
	}
	routes.SetupRoutes(e, h)

	// Start the server
	port := config.GetEnv("PORT", "3000")
	logger.Info().Str("port", port).Msg("starting server")
	e.Logger.Fatal(e.Start(":" + port))
}
