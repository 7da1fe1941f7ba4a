package endpoints

import (
	"wrangler-in-go/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterEnginesEndpoint(srv)
	RegisterWrangleEndpoint(srv)
	RegisterRunsEndpoints(srv)
	RegisterHealthEndpoint(srv)
}
