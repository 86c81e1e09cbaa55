package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"

	"neurocrypt/src/auth"
	"neurocrypt/src/handler"
	"neurocrypt/src/repository"
)

func StartServer(port string) {
	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck error")
		}
	})
	r.Post("/auth/signup", handler.DefaultSignupHandler())
	r.Post("/auth/login", handler.DefaultLoginHandler())

	// Bearer-authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(repository.NewUserRepository()))

		r.Get("/auth/me", handler.MeHandler())

		r.Get("/auth/simulator-state", handler.DefaultGetSimulatorStateHandler())
		r.Post("/auth/simulator-state", handler.DefaultSaveSimulatorStateHandler())
		r.Delete("/auth/simulator-state", handler.DefaultDeleteSimulatorStateHandler())

		r.Get("/admin/simulator-states", handler.ListSimulatorStatesHandler(repository.NewSimulatorStateRepository()))
		r.Delete("/admin/simulator-states", handler.ClearSimulatorStatesHandler(repository.NewSimulatorStateRepository()))
	})

	// Graceful server
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
