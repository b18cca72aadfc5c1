package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrisdomaub-dev/rider-app/internal/api"
	"github.com/chrisdomaub-dev/rider-app/internal/app/service"
	"github.com/chrisdomaub-dev/rider-app/internal/common/security"
	"github.com/chrisdomaub-dev/rider-app/internal/domain/repository"
	"github.com/chrisdomaub-dev/rider-app/internal/platform/config"
	"github.com/chrisdomaub-dev/rider-app/internal/platform/database"
	"github.com/chrisdomaub-dev/rider-app/internal/platform/session"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	session.ConnectRedis()
	defer session.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	rideRepo := repository.NewPgRideRepository(database.DB)
	eventRepo := repository.NewPgRideEventRepository(database.DB)

	// 6. Initialize Services
	sessions := session.NewStore(session.RDB)
	authService := service.NewAuthService(userRepo, sessions)
	userService := service.NewUserService(userRepo)
	rideService := service.NewRideService(rideRepo, eventRepo, userRepo, database.DB)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, rideService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
