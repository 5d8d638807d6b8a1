package main

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/db"
	"github.com/inkwell/internal/handler"
	"github.com/inkwell/internal/router"
	"github.com/inkwell/internal/service"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	gdb, err := db.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	api := handler.NewAPI(gdb, tokens)

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api)
	log.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
