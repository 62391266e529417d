package config

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"

	"resepku/internal/api/handlers"
	"resepku/internal/api/routes"
	"resepku/internal/middleware"
	"resepku/internal/utils"
	"resepku/internal/utils/cache"
	"resepku/internal/utils/mailing"
	"resepku/internal/utils/storage"
	"resepku/pkg/catalog"
	"resepku/pkg/collection"
	"resepku/pkg/jwt"
	"resepku/pkg/recipe"
	"resepku/pkg/shoppinglist"
	"resepku/pkg/subscription"
	"resepku/pkg/user"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewMailer()

	cacheStore := cache.NewNoop()
	if addr := utils.GetConfig("REDIS_ADDR"); addr != "" {
		cacheStore = cache.NewRedis(addr, utils.GetConfig("REDIS_PASSWORD"))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	catalogRepository := catalog.NewCatalogRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	collectionRepository := collection.NewCollectionRepository(db)
	subscriptionRepository := subscription.NewSubscriptionRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService, s3, mailer)
	catalogService := catalog.NewCatalogService(catalogRepository, cacheStore)
	recipeService := recipe.NewRecipeService(recipeRepository, catalogRepository, s3, utils.GetConfig("APP_URL"))
	collectionService := collection.NewCollectionService(collectionRepository)
	shoppingListService := shoppinglist.NewShoppingListService(collectionRepository)
	subscriptionService := subscription.NewSubscriptionService(subscriptionRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	collectionHandler := handlers.NewCollectionHandler(collectionService, shoppingListService)
	subscriptionHandler := handlers.NewSubscriptionHandler(subscriptionService)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		CatalogHandler:      catalogHandler,
		RecipeHandler:       recipeHandler,
		CollectionHandler:   collectionHandler,
		SubscriptionHandler: subscriptionHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
