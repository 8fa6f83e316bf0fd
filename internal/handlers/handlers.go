package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/abrezinsky/jeopardy/internal/services"
	"github.com/abrezinsky/jeopardy/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// IndexPageData holds the data passed to the index template
type IndexPageData struct {
	Title     string
	GameID    string
	Generated bool
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index *template.Template
}

// Options carries handler settings that are not services
type Options struct {
	// BaseURL is the public address encoded in share QR codes. When empty
	// the request's host is used.
	BaseURL string
	// Generated reports whether boards come from the question model
	Generated bool
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Games        services.GameServicer
	Corpus       services.CorpusServicer
	Hub          *websocket.Hub
	Log          HTTPLogger
	opts         Options
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	games services.GameServicer,
	corpus services.CorpusServicer,
	templatesFS fs.FS,
	staticServer http.Handler,
	hub *websocket.Hub,
	log HTTPLogger,
	opts Options,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Games:        games,
		Corpus:       corpus,
		Hub:          hub,
		Log:          log,
		opts:         opts,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(games services.GameServicer, corpus services.CorpusServicer) *Handlers {
	return &Handlers{
		Games:        games,
		Corpus:       corpus,
		Log:          NoopHTTPLogger{},
		staticServer: http.NotFoundHandler(),
		// templates left nil - API endpoints don't use templates
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}

	return t, nil
}
