// Package handlers wires the HTTP surface: the catalog API, the upstream
// proxy, the form endpoints, and the chat widget.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/aa-remote/site/internal/catalog"
	"github.com/aa-remote/site/internal/chat"
	"github.com/aa-remote/site/internal/domain"
	"github.com/aa-remote/site/internal/mail"
	"github.com/aa-remote/site/internal/platform/httpx"
	"github.com/aa-remote/site/internal/platform/observability"
)

// CatalogService renders catalog views.
type CatalogService interface {
	View(ctx context.Context, state catalog.ViewState) (catalog.View, error)
	Categories(collection domain.Collection) []string
	RefreshDebounced()
}

// GamesProxy fetches the upstream games feed verbatim.
type GamesProxy interface {
	FetchRaw(ctx context.Context) ([]byte, int, error)
}

// MailService delivers form submissions.
type MailService interface {
	SendContact(ctx context.Context, sub mail.ContactSubmission) (string, error)
	SendRequest(ctx context.Context, sub mail.RequestSubmission) (string, error)
}

// ChatService runs the scripted chat.
type ChatService interface {
	Respond(sessionID, text string) (chat.Session, error)
	Clear(sessionID string)
}

// Options collects router dependencies and tunables.
type Options struct {
	Logger         *zap.Logger
	Catalog        CatalogService
	Proxy          GamesProxy
	Mail           MailService
	MailEnabled    bool
	Chat           ChatService
	LocalDataPath  string
	RequestTimeout time.Duration
}

// Option mutates Options.
type Option func(*Options)

// WithLogger sets the base logger injected into every request context.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithCatalog sets the catalog service.
func WithCatalog(svc CatalogService) Option {
	return func(o *Options) { o.Catalog = svc }
}

// WithProxy sets the upstream games proxy.
func WithProxy(proxy GamesProxy) Option {
	return func(o *Options) { o.Proxy = proxy }
}

// WithMail sets the mail service. enabled reports whether delivery is
// configured; when false the form endpoints answer 503.
func WithMail(svc MailService, enabled bool) Option {
	return func(o *Options) {
		o.Mail = svc
		o.MailEnabled = enabled
	}
}

// WithChat sets the chat service.
func WithChat(svc ChatService) Option {
	return func(o *Options) { o.Chat = svc }
}

// WithLocalDataPath sets the file served at /data/games.json.
func WithLocalDataPath(path string) Option {
	return func(o *Options) { o.LocalDataPath = path }
}

// WithRequestTimeout bounds request handling end to end.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) { o.RequestTimeout = d }
}

// NewRouter assembles the chi router with the standard middleware stack.
func NewRouter(opts ...Option) http.Handler {
	options := Options{
		Logger:         zap.NewNop(),
		RequestTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observabilityStack(options.Logger)...)
	r.Use(middleware.Timeout(options.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("not_found", "resource not found", http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
	})

	registerHealth(r)

	if options.Catalog != nil {
		h := &catalogHandler{svc: options.Catalog}
		r.Get("/api/products", h.list)
	}
	if options.Proxy != nil {
		h := &proxyHandler{proxy: options.Proxy}
		r.Get("/api/games", h.games)
	}
	if options.LocalDataPath != "" {
		h := &localDataHandler{path: options.LocalDataPath}
		r.Get("/data/games.json", h.serve)
	}
	if options.Mail != nil {
		h := &formsHandler{svc: options.Mail, enabled: options.MailEnabled}
		r.Post("/api/contact", h.contact)
		r.Post("/api/request", h.request)
	}
	if options.Chat != nil {
		h := &chatHandler{svc: options.Chat}
		r.Post("/api/chat", h.message)
		r.Delete("/api/chat/{sessionID}", h.clear)
	}

	return r
}

func observabilityStack(logger *zap.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger),
		observability.RequestLoggerMiddleware(),
		observability.RecoveryMiddleware(logger),
	}
}
