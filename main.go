package main

import (
	"os"
	"time"

	"github.com/Ankitshrma25/IMS/cmd"
	"github.com/Ankitshrma25/IMS/internal/container"
	"github.com/Ankitshrma25/IMS/internal/database"
	"github.com/Ankitshrma25/IMS/internal/database/migration"
	"github.com/Ankitshrma25/IMS/internal/logger"
	"github.com/Ankitshrma25/IMS/internal/middleware"
	"github.com/Ankitshrma25/IMS/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	// Subcommands (migrate) short-circuit the server.
	if len(os.Args) > 1 {
		cmd.Execute()
		return
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if err := migration.Migrate(dbURL, "file://migrations", log); err != nil {
		log.Fatal("Database migration failed", zap.Error(err))
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	log.Info("Connected to the database")

	appContainer := container.NewAppContainer(db, log)

	router := gin.New()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(100, time.Minute)))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)

	host := os.Getenv("APP_HOST")
	if host == "" {
		host = ":8080"
	}

	log.Info("Starting server", zap.String("host", host))
	if err := router.Run(host); err != nil {
		log.Fatal("Server stopped", zap.Error(err))
	}
}
