package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"bookquest/internal/api"
	"bookquest/internal/repository"
	"bookquest/internal/service"
	"bookquest/pkg/auth"
	"bookquest/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	jwtAuth := auth.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.DebugMode)

	reconciler := service.NewReconcileService(repo)

	challengeService := service.NewChallengeService(repo)
	questService := service.NewQuestService(repo)
	participationService := service.NewParticipationService(repo)
	questBookService := service.NewQuestBookService(repo, reconciler)
	progressService := service.NewProgressService(repo)
	readingStatusService := service.NewReadingStatusService(repo, reconciler)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewChallengeRoutes(a, challengeService, jwtAuth)
	api.NewQuestRoutes(a, questService, jwtAuth)
	api.NewParticipationRoutes(a, participationService, jwtAuth)
	api.NewQuestBookRoutes(a, questBookService, jwtAuth)
	api.NewProgressRoutes(a, progressService, jwtAuth)
	api.NewReadingStatusRoutes(a, readingStatusService, jwtAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
