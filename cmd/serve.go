/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/longkey1/chatbox/internal/answer"
	"github.com/longkey1/chatbox/internal/answer/prompt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	envFile    string
	serveAddr  string
	promptFile string
	serveVars  []string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the answering endpoint",
	Long: `Run an HTTP server that answers chat prompts.

POST /answer accepts {"prompt": "..."} and replies with {"response": "..."}.
The server is configured through ANSWER_* environment variables, optionally
loaded from a .env file:

  ANSWER_ADDR             listen address (default :8080)
  ANSWER_BACKEND          openai or echo (default openai)
  ANSWER_MODEL            chat model (default gpt-4o-mini)
  ANSWER_OPENAI_API_KEY   API key, falls back to OPENAI_API_KEY
  ANSWER_OPENAI_BASE_URL  API base URL
  ANSWER_PROMPT_FILE      TOML prompt template with system/user/model
  ANSWER_ALLOWED_ORIGINS  comma separated CORS origins, * for any
  ANSWER_TIMEOUT          backend call timeout (default 60s)

Retrieval adds documents stored by 'chatbox ingest' to every prompt through
the {{context}} placeholder. Prompts without related documents get a 404.

  ANSWER_RETRIEVAL             enable retrieval (default false)
  ANSWER_QDRANT_HOST           Qdrant host (default localhost)
  ANSWER_QDRANT_PORT           Qdrant gRPC port (default 6334)
  ANSWER_QDRANT_API_KEY        Qdrant API key
  ANSWER_QDRANT_TLS            connect with TLS
  ANSWER_COLLECTION            collection name (default demo_collection)
  ANSWER_EMBEDDING_MODEL       embedding model (default text-embedding-3-small)
  ANSWER_EMBEDDING_DIMENSIONS  vector size (default 1536)
  ANSWER_TOP_K                 documents per prompt (default 10)
  ANSWER_SCORE_THRESHOLD       minimum similarity score`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := answer.LoadConfig(envFile)
		if err != nil {
			return fmt.Errorf("loading server config: %w", err)
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr = serveAddr
		}
		if cmd.Flags().Changed("prompt") {
			cfg.PromptFile = promptFile
		}

		tmpl, err := prompt.Load(cfg.PromptFile)
		if err != nil {
			return fmt.Errorf("loading prompt: %w", err)
		}
		if cfg.Retrieval && cfg.PromptFile == "" {
			tmpl = prompt.Retrieval()
		}

		vars, err := prompt.ParseVars(serveVars)
		if err != nil {
			return err
		}

		backend, err := newBackend(cfg)
		if err != nil {
			return fmt.Errorf("creating backend: %w", err)
		}
		// model from the prompt template overrides the configured one
		if ob, ok := backend.(*answer.OpenAIBackend); ok && tmpl.Model != nil {
			backend = ob.WithModel(*tmpl.Model)
		}

		svc := answer.NewService(backend, tmpl).WithVars(vars)
		if cfg.Retrieval {
			store, err := newQdrantStore(cfg)
			if err != nil {
				return fmt.Errorf("opening vector store: %w", err)
			}
			defer store.Close()
			svc.WithRetriever(answer.NewVectorRetriever(answer.NewOpenAIEmbedder(cfg), store, cfg.TopK))
			log.Info().
				Str("collection", store.Collection()).
				Int("top_k", cfg.TopK).
				Msg("retrieval enabled")
		}

		handler := answer.NewServer(
			svc,
			answer.WithAllowedOrigins(cfg.AllowedOrigins),
			answer.WithServerLogger(log.Logger),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}, cfg.Backend)
	},
}

// runServer serves until ctx is done and then shuts down gracefully.
func runServer(ctx context.Context, srv *http.Server, backend string) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("backend", backend).Msg("answer server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down answer server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&envFile, "env", "", "Load ANSWER_* variables from this .env file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides ANSWER_ADDR)")
	serveCmd.Flags().StringVarP(&promptFile, "prompt", "p", "", "Prompt template file (overrides ANSWER_PROMPT_FILE)")
	serveCmd.Flags().StringArrayVar(&serveVars, "var", []string{}, "Key-value pairs for the prompt template (format: key:value)")
}
