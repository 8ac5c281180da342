// Package server runs the HTTP servers of both services.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/ilya-burinskiy/clipgate/internal/app/configs"
	"github.com/ilya-burinskiy/clipgate/internal/app/logger"
)

const shutdownTimeout = 5 * time.Second

// Run serves handler until ctx is done, then shuts the server down.
// With HTTPS enabled certificates for BaseHost are obtained via autocert.
func Run(ctx context.Context, config configs.Config, handler http.Handler) error {
	server := http.Server{
		Handler:           handler,
		Addr:              config.ListenAddr(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("starting server", zap.String("addr", server.Addr), zap.Bool("https", config.UseHTTPS()))
		if config.UseHTTPS() {
			manager := &autocert.Manager{
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(config.BaseHost),
			}
			server.TLSConfig = manager.TLSConfig()
			serveErr <- server.ListenAndServeTLS("", "")
			return
		}
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Info("server shutdown error", zap.Error(err))
		return err
	}

	return nil
}
