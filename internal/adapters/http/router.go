package http

import (
	"context"

	"github.com/dkeye/Huddle/internal/adapters/signal"
	"github.com/dkeye/Huddle/internal/adapters/stt"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	sessionName    = "HuddleSessions"
	sessionNameKey = "name"
)

// Server holds what the handlers need.
type Server struct {
	Orch       *orch.Orchestrator
	Signal     *signal.SignalWSController
	Candidates []stt.Availability
}

func SetupRouter(ctx context.Context, cfg *config.Config, s *Server) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions(sessionName, store))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/health", s.health)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	api.GET("/ws/signal", func(c *gin.Context) {
		name, _ := sessions.Default(c).Get(sessionNameKey).(string)
		log.Debug().Str("module", "adapters.http").Msg("ws signal endpoint hit")
		s.Signal.HandleSignal(ctx, c, name)
	})
	api.POST("/profile", s.profile)
	api.GET("/transcription/status", s.transcriptionStatus)
	api.POST("/adapt", s.adapt)

	rooms := api.Group("/rooms")
	rooms.GET("", s.rooms)
	rooms.GET("/:room/transcript", s.transcript)
	rooms.GET("/:room/sentiment", s.sentiment)
	rooms.GET("/:room/sentiment/:speaker", s.speakerSentiment)
	rooms.GET("/:room/engagement", s.engagement)
	rooms.POST("/:room/nudge", s.nudge)
	rooms.POST("/:room/summary", s.summary)

	return r
}
