package endpoints

import (
	"net/http"

	"wrangler-in-go/pkg/server"
)

// HealthResponse represents the response from /health
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RegisterHealthEndpoint registers the store connectivity check
func RegisterHealthEndpoint(s *server.Server) {
	s.Router.HandleFunc("/health", handleHealth(s)).Methods("GET")
}

func handleHealth(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.HealthStore == nil {
			writeJSON(w, http.StatusOK, HealthResponse{Status: "ok (no store configured)"})
			return
		}
		if err := s.HealthStore.CheckConnectivity(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
