package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/server/middleware"
	"wrangler-in-go/pkg/store"
	"wrangler-in-go/pkg/wrangler/engine"
)

type Server struct {
	Router        *mux.Router
	Config        *config.Config
	Engines       *engine.Registry
	RunsStore     store.RunsStore
	HealthStore   store.HealthStore
	JWTMiddleware *middleware.JWTAuthenticator
	srv           *http.Server
}

func NewServer(
	cfg *config.Config,
	engines *engine.Registry,
	runsStore store.RunsStore,
	healthStore store.HealthStore,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.Addr(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:        router,
		Config:        cfg,
		Engines:       engines,
		RunsStore:     runsStore,
		HealthStore:   healthStore,
		JWTMiddleware: middleware.NewJWTAuthenticator([]byte(cfg.APISecret)),
		srv:           srv,
	}
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Serve runs the server on an existing listener. Used by tests that
// need the bound port before the server starts.
func (s *Server) Serve(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
