package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/coderoom/internal/adapters/http"
	wsignal "github.com/dkeye/coderoom/internal/adapters/signal"
	"github.com/dkeye/coderoom/internal/app"
	"github.com/dkeye/coderoom/internal/app/orch"
	"github.com/dkeye/coderoom/internal/chat"
	"github.com/dkeye/coderoom/internal/config"
	"github.com/dkeye/coderoom/internal/exec"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.Mode == "release" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	judge0 := exec.NewJudge0(func(o *exec.Judge0Options) {
		if cfg.Exec.Host != "" {
			o.Host = cfg.Exec.Host
		}
		o.BaseURL = cfg.Exec.BaseURL
		o.APIKey = cfg.Exec.APIKey
	})
	gateway := exec.NewGateway(judge0, func(o *exec.Options) {
		o.MinDelay = cfg.Exec.MinDelay
		o.MaxRetries = cfg.Exec.MaxRetries
		o.Timeout = cfg.Exec.Timeout
	})
	if cfg.Exec.APIKey == "" {
		log.Warn().Str("module", "main").Msg("no execution API key, run-code will report not configured")
	}

	assistant, err := chat.New(chat.Settings{
		Provider:     cfg.Chat.Provider,
		APIKey:       cfg.Chat.APIKey,
		Model:        cfg.Chat.Model,
		MaxTokens:    cfg.Chat.MaxTokens,
		SystemPrompt: cfg.Chat.SystemPrompt,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up assistant")
	}

	reg := app.NewRegistry(app.NewRoomStore())
	coord := orch.New(reg, app.SimplePolicy{}, gateway, assistant)
	coord.ChatTimeout = cfg.Chat.Timeout

	limiter := wsignal.NewConnRateLimiter(cfg.Rate.Messages, cfg.Rate.Interval)
	ws := wsignal.NewSignalWSController(coord, limiter, wsignal.Options{
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		PongWait:     cfg.PongWait,
		WriteTimeout: 5 * time.Second,
		SendBuffer:   cfg.SendBuffer,
	})

	r := router.SetupRouter(ctx, cfg, coord, ws)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return coord.Run(gctx) })
	g.Go(func() error { return gateway.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("coderoom server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}
