package main

import (
	"resume-parser/internal/bootstrap"
	"resume-parser/internal/shared/config"
	"resume-parser/internal/shared/server"
	"resume-parser/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Setup(cfg.LogLevel, cfg.LogFormat)
	log := telemetry.Logger()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bootstrap build")
	}

	addr := server.Addr(cfg.Port)
	telemetry.Info("api.start", map[string]any{"addr": addr, "parse_mode": cfg.ParseMode, "store": cfg.ObjectStoreType})

	if err := app.Router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
