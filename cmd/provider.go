package cmd

import (
	"fmt"

	"github.com/longkey1/chatbox/internal/answer"
	"github.com/longkey1/chatbox/internal/chatbox"
	"github.com/longkey1/chatbox/internal/chatbox/config"
	"github.com/longkey1/chatbox/internal/chatbox/coordinator"
	"github.com/longkey1/chatbox/internal/chatbox/transport"
	"github.com/rs/zerolog/log"
)

// newBackend creates the answer backend selected by the server configuration
func newBackend(cfg *answer.Config) (answer.Backend, error) {
	switch cfg.Backend {
	case answer.BackendOpenAI:
		return answer.NewOpenAIBackend(cfg), nil
	case answer.BackendEcho:
		return answer.EchoBackend{}, nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s", cfg.Backend)
	}
}

// newQdrantStore opens the vector store named by the server configuration
func newQdrantStore(cfg *answer.Config) (*answer.QdrantStore, error) {
	if err := cfg.ValidateRetrieval(); err != nil {
		return nil, err
	}
	return answer.NewQdrantStore(cfg)
}

// newAnswerer creates the transport client for the configured endpoint
func newAnswerer(cfg *config.Config) chatbox.Answerer {
	return transport.NewClient(cfg, transport.WithLogger(log.Logger))
}

// newCoordinator wires a coordinator to the configured endpoint. It picks up
// the global logger at call time, so logging must be set up first.
func newCoordinator(cfg *config.Config) *coordinator.Coordinator {
	return coordinator.New(newAnswerer(cfg), coordinator.WithLogger(log.Logger))
}
