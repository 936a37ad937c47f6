package handlers

import (
	"github.com/mhruby/catchboard/internal/auth"
	"github.com/mhruby/catchboard/internal/offline"
	"github.com/mhruby/catchboard/internal/services"
	"github.com/mhruby/catchboard/internal/websocket"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Competitors *services.CompetitorService
	Entries     *services.EntryService
	Standings   *services.StandingsService
	Settings    *services.SettingsService
	Auth        *auth.Auth
	Hub         *websocket.Hub
	Queue       *offline.Queue
	Monitor     *offline.Monitor
	Client      scoreboard.Client
	Log         HTTPLogger
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	competitors *services.CompetitorService,
	entries *services.EntryService,
	standings *services.StandingsService,
	settings *services.SettingsService,
	sessionAuth *auth.Auth,
	hub *websocket.Hub,
	queue *offline.Queue,
	monitor *offline.Monitor,
	client scoreboard.Client,
	log HTTPLogger,
) *Handlers {
	return &Handlers{
		Competitors: competitors,
		Entries:     entries,
		Standings:   standings,
		Settings:    settings,
		Auth:        sessionAuth,
		Hub:         hub,
		Queue:       queue,
		Monitor:     monitor,
		Client:      client,
		Log:         log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }
