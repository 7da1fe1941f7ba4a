package endpoints

import (
	"net/http"
	"os"

	"wrangler-in-go/pkg/server"
)

// StatusResponse represents the response from /
type StatusResponse struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Engines []string `json:"engines"`
}

// RegisterStatusEndpoints registers the status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page (no auth required)
	s.Router.HandleFunc("/", handleStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("WRANGLER_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		writeJSON(w, http.StatusOK, StatusResponse{
			Name:    "wrangler",
			Version: version,
			Engines: s.Engines.Names(),
		})
	}
}
