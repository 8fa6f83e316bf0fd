package app

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/jeopardy/internal/cluestore"
	"github.com/abrezinsky/jeopardy/internal/config"
	"github.com/abrezinsky/jeopardy/internal/curator"
	"github.com/abrezinsky/jeopardy/internal/game"
	"github.com/abrezinsky/jeopardy/internal/handlers"
	"github.com/abrezinsky/jeopardy/internal/logger"
	"github.com/abrezinsky/jeopardy/internal/repository"
	"github.com/abrezinsky/jeopardy/internal/services"
	"github.com/abrezinsky/jeopardy/internal/websocket"
	"github.com/abrezinsky/jeopardy/pkg/oracle"
)

// SettingBaseURL is the settings key holding the last detected public address
const SettingBaseURL = "base_url"

// App holds all application dependencies
type App struct {
	log      logger.Logger
	cfg      config.Config
	handlers *handlers.Handlers
	repo     *repository.Repository
	games    *services.GameService
	corpus   *services.CorpusService
	hub      *websocket.Hub
	baseURL  string

	mu     sync.Mutex
	server *http.Server
}

// New creates and initializes a new application instance. The oracle grades
// every response and, when cfg.Generate is set, also writes the boards.
func New(log logger.Logger, cfg config.Config, grader oracle.Client, templatesFS, staticFS fs.FS) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	a := &App{log: log, cfg: cfg, repo: repo}

	// Clue bank, seeded from the corpus file on first run
	store := cluestore.New(log, repo)
	a.corpus = services.NewCorpusService(log, store)
	if seeded, err := a.corpus.EnsureSeeded(context.Background(), cfg.CorpusPath); err != nil {
		log.Warn("Failed to seed clue bank", "path", cfg.CorpusPath, "error", err)
	} else if seeded {
		log.Info("Clue bank seeded", "path", cfg.CorpusPath)
	}

	var opts []curator.Option
	if cfg.Generate {
		opts = append(opts, curator.WithGenerator(grader))
		log.Info("Boards will be generated by the question model")
	}
	boards := curator.New(log, store, opts...)

	a.games = services.NewGameService(log, boards, grader, game.Options{DraftClearDelay: cfg.DraftClearDelay})

	// Initialize WebSocket hub; sessions publish through it
	a.hub = websocket.New(log, a.games)
	a.hub.Start()
	a.games.SetNotifier(a.hub)

	a.baseURL = a.resolveBaseURL(fmt.Sprintf("http://%s:%d", getPreferredIP(realNetworkProvider{}), cfg.Port))

	h, err := handlers.New(
		a.games,
		a.corpus,
		templatesFS,
		handlers.NewStaticServer(staticFS),
		a.hub,
		log,
		handlers.Options{BaseURL: a.baseURL, Generated: cfg.Generate},
	)
	if err != nil {
		a.games.Close()
		repo.Close()
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}
	a.handlers = h

	return a, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// BaseURL is the address players on the LAN can open
func (a *App) BaseURL() string {
	return a.baseURL
}

// Close stops the server, every live game and the database
func (a *App) Close() {
	a.mu.Lock()
	server := a.server
	a.mu.Unlock()
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}
	if a.games != nil {
		a.games.Close()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.mu.Lock()
	a.server = server
	a.mu.Unlock()

	a.log.Info("Server starting", "url", a.baseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// resolveBaseURL picks the address encoded in share QR codes: BASE_URL when
// configured, otherwise the stored value unless it points at localhost,
// otherwise detected. The choice is stored for the next start.
func (a *App) resolveBaseURL(detected string) string {
	if a.cfg.BaseURL != "" {
		return a.cfg.BaseURL
	}

	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, SettingBaseURL)
	if existing != "" && !strings.Contains(existing, "localhost") {
		return existing
	}

	if err := a.repo.SetSetting(ctx, SettingBaseURL, detected); err != nil {
		a.log.Warn("Failed to store default base_url", "error", err)
	} else {
		a.log.Info("Default base URL set", "url", detected)
	}
	return detected
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IPv4 address for LAN play, preferring
// private ranges and falling back to localhost
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
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
