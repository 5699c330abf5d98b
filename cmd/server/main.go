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

	"microblog/internal/api"
	"microblog/internal/app/service"
	"microblog/internal/app/session"
	"microblog/internal/domain/repository"
	"microblog/internal/platform/config"
	"microblog/internal/platform/database"
	"microblog/internal/platform/sessions"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize Database
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()
	fmt.Println("Database connected.")

	// 3. Initialize Redis (session token store)
	rdb, err := sessions.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	defer rdb.Close()
	fmt.Println("Redis connected.")

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	postRepo := repository.NewPgPostRepository(db)

	// 5. Initialize Session Manager & Services
	sessionManager := session.NewManager(userRepo, sessions.NewRedisTokenStore(rdb), cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, sessionManager, cfg.BcryptCost)
	postService := service.NewPostService(postRepo)

	if cfg.SeedDemoData {
		if err := service.SeedDemoData(context.Background(), userRepo, postRepo, cfg.BcryptCost); err != nil {
			log.Fatalf("Seeding demo data failed: %v", err)
		}
		fmt.Println("Demo data seeded.")
	}

	// 6. Initialize Router & HTTP Server
	router := api.NewRouter(authService, postService, sessionManager, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
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
