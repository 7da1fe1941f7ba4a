// Package server provides the HTTP server for the wrangler API.
//
// This package implements the HTTP server that answers wrangle
// requests and records matrix runs. It uses gorilla/mux for routing
// and provides middleware for authentication and request handling.
//
// # Server Setup
//
//	srv := server.NewServer(cfg, engine.DefaultRegistry, runsStore, healthStore)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - Config: effective configuration
//   - Engines: the execution engine registry
//   - RunsStore, HealthStore: persistence interfaces
//   - JWTMiddleware: bearer token validation for mutating routes
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers:
//
//   - / - status
//   - /engines - registered engine names
//   - /wrangle - interval identification over posted records
//   - /runs - matrix run reporting and querying
//   - /health - store connectivity
package server
