package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pixelduel/internal/config"
	"pixelduel/internal/counter"
	"pixelduel/internal/logging"
	"pixelduel/internal/store"
	httptransport "pixelduel/internal/transport/http"
	"pixelduel/internal/ws"
)

func main() {
	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}
	gameCfg, err := config.LoadGame()
	if err != nil {
		log.Fatal().Err(err).Msg("load game config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	defer st.Close()
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}
	if err := st.EnsureSchema(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("ensure schema failed")
	}

	gameSrv := ws.NewServer(gameCfg, st)

	var cnt *counter.Service
	if cfg.RedisURL != "" {
		cnt, err = counter.New(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("counter init failed")
		}
		defer cnt.Close()
		log.Info().Msg("lobby counter enabled")
	}

	r := httptransport.NewRouter(st, gameSrv, cnt)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Str("judge_mode", gameCfg.JudgeMode).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
