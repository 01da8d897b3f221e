// Package commands implements the tecfag-rag CLI commands.
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	configfile "github.com/tecfag/rag/internal/adapters/driven/config/file"
	embeddinggemini "github.com/tecfag/rag/internal/adapters/driven/embedding/gemini"
	llmfailover "github.com/tecfag/rag/internal/adapters/driven/llm/failover"
	llmgemini "github.com/tecfag/rag/internal/adapters/driven/llm/gemini"
	llmgroq "github.com/tecfag/rag/internal/adapters/driven/llm/groq"
	"github.com/tecfag/rag/internal/adapters/driven/storage/sqlite"
	"github.com/tecfag/rag/internal/core/ports/driven"
	"github.com/tecfag/rag/internal/logger"
)

var (
	flagVerbose bool
	flagConfig  string
	flagCatalog string
)

var rootCmd = &cobra.Command{
	Use:   "tecfag-rag",
	Short: "Retrieval assistant for the Tecfag document base",
	Long: `tecfag-rag indexes technical documents and answers questions from
their content using embedding-based retrieval and a language model.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(flagVerbose)
		// Best effort; credentials may come from the config file.
		_ = godotenv.Load()
	},
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose pipeline logging")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default ~/.tecfag/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "restrict operations to one catalog")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
}

// openStore loads the configuration and opens the SQLite store.
func openStore() (*configfile.Config, *sqlite.Store, error) {
	cfg, err := configfile.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, store, nil
}

// newEmbedder builds the Gemini embedding service from config.
func newEmbedder(cfg *configfile.Config) (driven.EmbeddingService, error) {
	return embeddinggemini.NewEmbeddingService(embeddinggemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   "", // embedding model is fixed; cfg.Gemini.Model configures completions
	})
}

// newCompleter builds the Gemini-primary/Groq-fallback completion
// chain. Groq is optional: without its key, Gemini runs alone.
func newCompleter(cfg *configfile.Config) (driven.CompletionService, error) {
	primary, err := llmgemini.NewCompletionService(llmgemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
	})
	if err != nil {
		return nil, err
	}

	if cfg.Groq.APIKey == "" {
		logger.Debug("Groq not configured, running without completion fallback")
		return primary, nil
	}

	fallback, err := llmgroq.NewCompletionService(llmgroq.Config{
		APIKey:  cfg.Groq.APIKey,
		BaseURL: cfg.Groq.BaseURL,
		Model:   cfg.Groq.Model,
	})
	if err != nil {
		return nil, err
	}

	return llmfailover.New(primary, fallback), nil
}
