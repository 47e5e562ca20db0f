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

	router "github.com/dkeye/Huddle/internal/adapters/http"
	"github.com/dkeye/Huddle/internal/adapters/rtc"
	wssignal "github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/adapters/stt"
	"github.com/dkeye/Huddle/internal/adapters/summary"
	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/app/pipeline"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/dkeye/Huddle/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	sel := stt.Select(ctx, stt.Config{
		Backends:     cfg.Transcription.Backends,
		OpenAIAPIKey: cfg.Transcription.OpenAIAPIKey,
		OpenAIModel:  cfg.Transcription.OpenAIModel,
		LocalURL:     cfg.Transcription.LocalURL,
		LocalAPIKey:  cfg.Transcription.LocalAPIKey,
		LocalModel:   cfg.Transcription.LocalModel,
	})
	summarizer, err := summary.Select(cfg.Summary.OpenAIAPIKey, cfg.Summary.OpenAIModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build summarizer")
	}

	o := orch.New(ctx, app.SimplePolicy{MaxDropped: cfg.MaxDropped}, sel.Backend, summarizer, orch.Config{
		Pipeline: pipeline.Config{
			FlushInterval: cfg.Transcription.FlushInterval,
			MinBytes:      cfg.Transcription.MinBytes,
			Timeout:       cfg.Transcription.Timeout,
		},
		Rooms: app.RoomOptions{
			AlertThreshold: cfg.Sentiment.AlertThreshold,
			AlertWindow:    cfg.Sentiment.AlertWindow,
			SentimentCap:   domain.SentimentHistoryCap,
		},
		NudgeAfter:     cfg.Engagement.NudgeAfter,
		SummaryTimeout: cfg.Summary.Timeout,
	})
	defer o.Close()

	ctl := wssignal.NewSignalWSController(o, wssignal.Options{
		SendBuffer: cfg.SendBuffer,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		ICEServers: rtc.ICEServers(cfg.ICEServers),
	})

	r := router.SetupRouter(ctx, cfg, &router.Server{Orch: o, Signal: ctl, Candidates: sel.Candidates})
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("stt", sel.Backend.Name()).Str("summary", summarizer.Name()).Msg("Huddle server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
