// Package app wires the repository, store, services, scheduler, and
// HTTP layer into one runnable server.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mhruby/catchboard/internal/auth"
	"github.com/mhruby/catchboard/internal/handlers"
	"github.com/mhruby/catchboard/internal/logger"
	"github.com/mhruby/catchboard/internal/offline"
	"github.com/mhruby/catchboard/internal/repository"
	"github.com/mhruby/catchboard/internal/scheduler"
	"github.com/mhruby/catchboard/internal/services"
	"github.com/mhruby/catchboard/internal/store"
	"github.com/mhruby/catchboard/internal/websocket"
	"github.com/mhruby/catchboard/pkg/scoreboard"
)

// Interval between upstream reachability probes.
const monitorInterval = 15 * time.Second

// App holds all application dependencies
type App struct {
	log        logger.Logger
	handlers   *handlers.Handlers
	repo       *repository.Repository
	cancelLoop context.CancelFunc
}

// New creates and initializes a new application instance
func New(log logger.Logger, dbPath string, client scoreboard.Client, sessionAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(dbPath)
	if err != nil {
		return nil, err
	}

	st := store.New(log, repo)
	queue := offline.NewQueue(log, repo)
	syncer := offline.NewSyncer(log, client, queue)

	// Initialize services
	settingsService := services.NewSettingsService(log, repo)
	competitorService := services.NewCompetitorService(log, st, repo, settingsService, syncer)
	standingsService := services.NewStandingsService(log, repo, settingsService)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, settingsService)
	hub.Start()
	settingsService.SetBroadcaster(hub)

	monitor := offline.NewMonitor(log, client, queue, hub, monitorInterval)
	entryService := services.NewEntryService(log, st, repo, settingsService, syncer, monitor)

	// Background loops: connectivity probing and score recomputation.
	ctx, cancel := context.WithCancel(context.Background())
	go monitor.Start(ctx)

	sched := scheduler.New(log, st, settingsService, hub, syncer)
	sched.Start(ctx)

	h := handlers.New(
		competitorService,
		entryService,
		standingsService,
		settingsService,
		sessionAuth,
		hub,
		queue,
		monitor,
		client,
		log,
	)

	return &App{
		log:        log,
		handlers:   h,
		repo:       repo,
		cancelLoop: cancel,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancelLoop != nil {
		a.cancelLoop()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	// QR box cards need an address other devices can reach, so default
	// the base URL to the detected LAN IP.
	ip := preferredIP()
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.setDefaultBaseURL(baseURL)

	a.log.Info("Server starting", "url", baseURL)
	return http.ListenAndServe(addr, a.Router())
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (useless on a printed QR code)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, "base_url")

	if existing == "" || strings.Contains(existing, "localhost") {
		if err := a.repo.SetSetting(ctx, "base_url", baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// preferredIP returns the best IPv4 address for LAN access, preferring
// private ranges. Falls back to localhost.
func preferredIP() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
