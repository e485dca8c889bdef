package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ride-service/src/internal/config"
	"ride-service/src/internal/delivery/http/middleware"
	"ride-service/src/pkg/log"
)

func main() {
	viperConfig := config.NewViper()
	viperConfig.SetDefault("log.level", "DEBUG")
	viperConfig.SetDefault("app.name", "RIDE_SERVICE")
	viperConfig.SetDefault("web.port", 8080)
	viperConfig.SetDefault("jwt.ttl_hour", 24)
	viperConfig.SetDefault("database.pool.max_open", 20)
	viperConfig.SetDefault("database.pool.max_idle", 5)
	viperConfig.SetDefault("database.pool.lifetime_minute", 30)

	log.InitLogger(viperConfig)
	logger := log.GetLogger()

	db := config.NewDatabase(viperConfig, logger)
	redisClient := config.NewRedis(viperConfig)
	validate := config.NewValidator(viperConfig)
	app := config.NewFiber(viperConfig)
	app.Use(middleware.NewLogger())

	config.Bootstrap(&config.BootstrapConfig{
		DB:       db,
		App:      app,
		Log:      logger,
		Validate: validate,
		Config:   viperConfig,
		Redis:    redisClient,
	})

	go func() {
		webPort := viperConfig.GetInt("web.port")
		if err := app.Listen(fmt.Sprintf(":%d", webPort)); err != nil {
			logger.Error("main", fmt.Sprintf("failed to start server: %v", err), "main", "")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("main", "server ride-service is shutting down...", "graceful", "")
	if err := app.Shutdown(); err != nil {
		logger.Error("main", fmt.Sprintf("error during shutdown: %v", err), "graceful", "")
	}
	logger.Info("main", fmt.Sprintf("server %s stopped", viperConfig.GetString("app.name")), "graceful", "")
}
