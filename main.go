package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"werkzeugverwaltung/app"
	"werkzeugverwaltung/config"
	"werkzeugverwaltung/routes"
)

func main() {
	config.LoadEnv()
	application := app.MustNew()
	defer application.Close()
	log := application.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.BootstrapDemoData(ctx, application); err != nil {
		log.Error("demo data failed", zap.Error(err))
	}

	r := application.Router
	routes.RegisterRoutes(r, application)

	srv := &http.Server{
		Addr:              ":" + application.Config.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
