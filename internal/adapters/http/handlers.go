package http

import (
	"errors"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/dkeye/Huddle/internal/adapters/summary"
	"github.com/dkeye/Huddle/internal/analytics/network"
	"github.com/dkeye/Huddle/internal/app/orch"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/process"
)

var validate = validator.New()

type ProfileRequest struct {
	Name string `json:"name"`
}

// profile remembers a display name for this browser's next connections.
func (s *Server) profile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid name"})
		return
	}
	name, err := domain.ValidateDisplayName(req.Name)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sess := sessions.Default(c)
	sess.Set(sessionNameKey, name)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}

type ProcessStats struct {
	PID        int     `json:"pid"`
	RSS        uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Goroutines int     `json:"goroutines"`
}

func processStats() ProcessStats {
	st := ProcessStats{PID: os.Getpid(), Goroutines: runtime.NumGoroutine()}
	p, err := process.NewProcess(int32(st.PID))
	if err != nil {
		log.Debug().Err(err).Str("module", "adapters.http").Msg("process stats")
		return st
	}
	if mem, err := p.MemoryInfo(); err == nil {
		st.RSS = mem.RSS
	}
	if cpu, err := p.CPUPercent(); err == nil {
		st.CPUPercent = cpu
	}
	return st
}

func (s *Server) health(c *gin.Context) {
	status := s.Orch.Status()
	summarizer := "none"
	if s.Orch.Summarizer != nil {
		summarizer = s.Orch.Summarizer.Name()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"features": gin.H{
			"transcription":      status.Backend,
			"summarization":      summarizer,
			"sentiment_analysis": true,
			"engagement":         true,
			"network_adaptation": true,
		},
		"active_rooms":       status.Stats.Rooms,
		"total_participants": status.Stats.Participants,
		"transcription":      status,
		"process":            processStats(),
	})
}

func (s *Server) transcriptionStatus(c *gin.Context) {
	status := s.Orch.Status()
	c.JSON(http.StatusOK, gin.H{
		"backend":        status.Backend,
		"candidates":     s.Candidates,
		"active_workers": status.Stats.ActiveWorkers,
		"rooms":          s.Orch.Rooms.List(),
	})
}

func (s *Server) rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": s.Orch.Rooms.List()})
}

// respond maps an unknown room to 404.
func respond(c *gin.Context, v any, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, v)
	case errors.Is(err, orch.ErrUnknownRoom):
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
	default:
		log.Error().Err(err).Str("module", "adapters.http").Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func roomParam(c *gin.Context) domain.RoomID {
	return domain.RoomID(c.Param("room"))
}

func (s *Server) transcript(c *gin.Context) {
	v, err := s.Orch.TranscriptView(roomParam(c))
	respond(c, v, err)
}

func (s *Server) sentiment(c *gin.Context) {
	v, err := s.Orch.SentimentView(roomParam(c))
	respond(c, v, err)
}

func (s *Server) speakerSentiment(c *gin.Context) {
	v, err := s.Orch.SpeakerSentiment(roomParam(c), domain.ConnID(c.Param("speaker")))
	respond(c, v, err)
}

func (s *Server) engagement(c *gin.Context) {
	v, err := s.Orch.EngagementView(roomParam(c))
	respond(c, v, err)
}

func (s *Server) nudge(c *gin.Context) {
	ids, err := s.Orch.Nudge(roomParam(c))
	respond(c, gin.H{"room": roomParam(c), "nudged": ids}, err)
}

type SummaryRequest struct {
	IncludeSentiment   *bool `json:"include_sentiment"`
	IncludeActionItems *bool `json:"include_action_items"`
}

type SummaryResponse struct {
	orch.SummaryReport
	Stats summary.Stats `json:"stats"`
}

func (s *Server) summary(c *gin.Context) {
	var req SummaryRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
	}
	opts := core.SummaryOptions{
		IncludeSentiment:   req.IncludeSentiment == nil || *req.IncludeSentiment,
		IncludeActionItems: req.IncludeActionItems == nil || *req.IncludeActionItems,
	}
	rep, err := s.Orch.Summarize(c.Request.Context(), roomParam(c), opts)
	if err != nil {
		respond(c, nil, err)
		return
	}
	c.JSON(http.StatusOK, SummaryResponse{SummaryReport: rep, Stats: summary.ComputeStats(rep.Transcript)})
}

type AdaptResponse struct {
	Mode       domain.Mode `json:"mode"`
	Suggestion string      `json:"suggestion"`
	RTT        float64     `json:"rtt"`
	PacketLoss float64     `json:"packet_loss"`
	Bandwidth  float64     `json:"bandwidth"`
}

// adapt classifies telemetry without touching any room.
func (s *Server) adapt(c *gin.Context) {
	var req network.Stats
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sample := req.Sample(time.Now())
	c.JSON(http.StatusOK, AdaptResponse{
		Mode:       sample.Mode,
		Suggestion: network.Suggestion(sample.Mode),
		RTT:        sample.RTT,
		PacketLoss: sample.PacketLoss,
		Bandwidth:  sample.Bandwidth,
	})
}
