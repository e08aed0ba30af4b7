package main

import (
	"flag"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/multicall/internal/config"
	"github.com/danmuck/multicall/internal/multicall"
	"github.com/danmuck/multicall/internal/observability"
	"github.com/danmuck/multicall/internal/server"
)

func main() {
	configPath := flag.String("config", "cmd/multicalld/config.toml", "gateway config path")
	flag.Parse()

	observability.InitLogger("multicalld")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load gateway config")
	}
	log.Info().Str("path", *configPath).Int("targets", len(cfg.Targets)).Msg("loaded gateway config")

	h, err := config.BuildHost(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build host")
	}
	router := multicall.NewRouter(multicall.NewContract(config.ProtocolLimits(cfg)))
	gw := server.Appear(server.Options{
		ID:          cfg.Name,
		Addr:        cfg.Addr,
		CorsOrigins: cfg.CorsOrigins,
		Limits:      config.FrameLimits(cfg),
		Auth:        config.Validator(cfg),
	}, h, router)

	for _, rt := range router.Routes() {
		log.Info().Str("method", rt.Method).Str("selector", rt.Selector.String()).Msg("entry point registered")
	}
	if err := gw.Serve(); err != nil {
		log.Fatal().Err(err).Msg("gateway stopped")
	}
}
