package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharedpages/diary-server/internal/api"
	"github.com/sharedpages/diary-server/internal/config"
	"github.com/sharedpages/diary-server/internal/logger"
	"github.com/sharedpages/diary-server/internal/repository"
	"github.com/sharedpages/diary-server/internal/service"
)

func main() {
	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up database")
	}
	defer db.Close()

	repo := repository.NewPostgresRepository(db)
	svc := service.NewDefaultService(repo, log)
	handler := api.NewHandler(svc, log)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestLogger(log))

	handler.SetupRoutes(router)

	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info().Str("addr", serverAddr).Msg("starting server")
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
