package endpoints

import (
	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/server"
	"wrangler-in-go/pkg/store"
	"wrangler-in-go/pkg/wrangler/engine"
)

// NewTestServer builds a server around mock stores for handler tests.
func NewTestServer(runsStore store.RunsStore, healthStore store.HealthStore, secret string) *server.Server {
	cfg := &config.Config{
		Host:      "127.0.0.1",
		Port:      8080,
		Engine:    engine.Default,
		APISecret: secret,
	}
	return server.NewServer(cfg, engine.DefaultRegistry, runsStore, healthStore)
}
