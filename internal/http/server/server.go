package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dropDatabas3/taskflow/internal/config"
	"github.com/dropDatabas3/taskflow/internal/observability/logger"
)

// Run arma el servicio y sirve HTTP hasta que ctx se cancela;
// entonces hace shutdown ordenado con server.shutdown_timeout.
func Run(ctx context.Context, cfg *config.Config) error {
	app, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.L().Warn("cleanup error", logger.Err(err))
		}
	}()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}
	return Serve(ctx, ln, app.Handler, cfg.Server)
}

// Serve atiende en ln hasta que ctx se cancela.
func Serve(ctx context.Context, ln net.Listener, h http.Handler, cfg config.ServerConfig) error {
	log := logger.L().With(logger.Component("server"))

	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", ln.Addr().String()))
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("server stopped")
	return nil
}
