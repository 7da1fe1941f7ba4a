package endpoints

import (
	"net/http"

	"wrangler-in-go/pkg/server"
)

// EnginesResponse represents the response from /engines
type EnginesResponse struct {
	Engines []string `json:"engines"`
	Default string   `json:"default"`
}

// RegisterEnginesEndpoint registers the engine listing endpoint
func RegisterEnginesEndpoint(s *server.Server) {
	s.Router.HandleFunc("/engines", handleEngines(s)).Methods("GET")
}

func handleEngines(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, EnginesResponse{
			Engines: s.Engines.Names(),
			Default: s.Config.Engine,
		})
	}
}
