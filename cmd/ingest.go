/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/longkey1/chatbox/internal/answer"
	"github.com/spf13/cobra"
)

var (
	chunkSize    int
	chunkOverlap int
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <path>...",
	Short: "Store documents for retrieval",
	Long: `Split text documents into chunks, embed them and store them in the
Qdrant collection the answer server retrieves from. Directories are walked
recursively; files other than text, markdown and similar formats are skipped.

Uses the same ANSWER_* settings as 'chatbox serve'. The collection is created
when it does not exist. Ingesting a file again replaces its chunks.

Example:
  chatbox ingest docs/
  chatbox ingest --env .env --chunk-size 800 handbook.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := answer.LoadConfig(envFile)
		if err != nil {
			return fmt.Errorf("loading server config: %w", err)
		}

		store, err := newQdrantStore(cfg)
		if err != nil {
			return fmt.Errorf("opening vector store: %w", err)
		}
		defer store.Close()

		if err := store.EnsureCollection(cmd.Context()); err != nil {
			return err
		}

		ing := answer.NewIngester(answer.NewOpenAIEmbedder(cfg), store,
			answer.WithChunking(chunkSize, chunkOverlap))
		stats, err := ing.Ingest(cmd.Context(), args...)
		if err != nil {
			return fmt.Errorf("ingesting documents: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d chunks from %d files into %s\n",
			stats.Chunks, stats.Files, store.Collection())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&envFile, "env", "", "Load ANSWER_* variables from this .env file")
	ingestCmd.Flags().IntVar(&chunkSize, "chunk-size", answer.DefaultChunkSize, "Maximum characters per chunk")
	ingestCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", answer.DefaultChunkOverlap, "Characters shared by consecutive chunks")
}
