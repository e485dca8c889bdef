package config

import (
	"ride-service/src/internal/delivery/http"
	"ride-service/src/internal/delivery/http/middleware"
	"ride-service/src/internal/delivery/http/route"
	"ride-service/src/internal/repository"
	"ride-service/src/internal/usecase"
	"ride-service/src/pkg/databases/mysql"
	"ride-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB       mysql.DBInterface
	App      *fiber.App
	Log      log.Log
	Validate *validator.Validate
	Config   *viper.Viper
	Redis    redis.UniversalClient
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	userRepository := repository.NewUserRepository(config.DB)
	rideRepository := repository.NewRideRepository(config.DB)

	// setup use cases
	authUseCase := usecase.NewAuthUseCase(
		config.Log,
		config.Validate,
		userRepository,
		config.Config,
		config.Redis,
	)
	rideUseCase := usecase.NewRideUseCase(
		config.Log,
		config.Validate,
		rideRepository,
	)

	// setup controllers
	authController := http.NewAuthController(authUseCase, config.Log)
	rideController := http.NewRideController(rideUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	routeConfig := route.RouteConfig{
		App:            config.App,
		RideController: rideController,
		AuthController: authController,
		AuthMiddleware: authMiddleware,
	}
	routeConfig.Setup()
}
