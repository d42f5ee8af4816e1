// Command site runs the remote-support website backend: the catalog API,
// the upstream games proxy, the form endpoints, and the chat widget.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aa-remote/site/internal/catalog"
	"github.com/aa-remote/site/internal/chat"
	"github.com/aa-remote/site/internal/handlers"
	"github.com/aa-remote/site/internal/mail"
	"github.com/aa-remote/site/internal/platform/cache"
	"github.com/aa-remote/site/internal/platform/config"
	"github.com/aa-remote/site/internal/platform/observability"
	"github.com/aa-remote/site/internal/sources"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("site terminated", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			logger.Error("invalid configuration", zap.Strings("fields", verr.Fields()))
		}
		return err
	}

	remote := sources.NewRemoteClient(cfg.Upstream.GamesAPIURL,
		sources.WithUserAgent(cfg.Upstream.UserAgent),
		sources.WithMaxRetries(cfg.Upstream.MaxRetries),
		sources.WithTimeout(cfg.Upstream.Timeout),
	)
	local := sources.NewLocalCatalog(cfg.Catalog.LocalDataPath)
	loader := sources.NewLoader(remote, local, logger)

	catalogSvc := catalog.NewService(catalog.Deps{
		Loader:          loader,
		Store:           cache.New[catalog.Snapshot](),
		Logger:          logger,
		SnapshotTTL:     cfg.Catalog.SnapshotTTL,
		RefreshDebounce: cfg.Catalog.SearchDebounce,
	})

	chatSvc := chat.NewService(chat.Deps{
		Store:      cache.New[chat.Session](),
		Logger:     logger,
		SessionTTL: cfg.Chat.SessionTTL,
	})

	mailEnabled := cfg.Mail.MailEnabled()
	mailSvc := mail.NewService(mail.Deps{
		Mailer:  mail.NewSMTPMailer(cfg.Mail),
		Logger:  logger,
		AdminTo: cfg.Mail.AdminTo,
	})
	if !mailEnabled {
		logger.Warn("mail not configured, form endpoints disabled")
	}

	router := handlers.NewRouter(
		handlers.WithLogger(logger),
		handlers.WithCatalog(catalogSvc),
		handlers.WithProxy(remote),
		handlers.WithLocalDataPath(cfg.Catalog.LocalDataPath),
		handlers.WithMail(mailSvc, mailEnabled),
		handlers.WithChat(chatSvc),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Warm the snapshot so the first game view does not pay the upstream
	// round trip.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := catalogSvc.Refresh(ctx); err != nil {
			logger.Warn("initial catalog load failed", zap.Error(err))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("site listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("site stopped")
	return nil
}
