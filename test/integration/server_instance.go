package integration

import (
	"fmt"
	"net"
	"sync/atomic"

	"gorm.io/gorm"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/server"
	"wrangler-in-go/pkg/server/endpoints"
	storegorm "wrangler-in-go/pkg/store/gorm"
	"wrangler-in-go/pkg/wrangler/engine"
)

// portCounter is used to allocate unique ports for each test server
var portCounter int32 = 19000

// ServerInstance represents a running wrangler server for the tests
type ServerInstance struct {
	Server    *server.Server
	ServerURL string
	Port      int

	listener net.Listener
}

// StartServer brings up an in-process wrangler server on a unique port,
// wired to the given database.
func StartServer(db *gorm.DB, apiSecret string) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))

	cfg := &config.Config{
		Host:      "127.0.0.1",
		Port:      port,
		Engine:    engine.Default,
		APISecret: apiSecret,
	}

	s := server.NewServer(cfg, engine.DefaultRegistry,
		storegorm.NewRunsStore(db), storegorm.NewHealthStore(db))
	endpoints.RegisterAll(s)

	listener, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.Addr(), err)
	}

	go func() {
		_ = s.Serve(listener)
	}()

	return &ServerInstance{
		Server:    s,
		ServerURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		Port:      port,
		listener:  listener,
	}, nil
}

// Stop closes the instance's listener.
func (si *ServerInstance) Stop() {
	if si.listener != nil {
		_ = si.listener.Close()
	}
}
