package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tecfag/rag/internal/core/services"
)

var (
	answerStyle  = lipgloss.NewStyle().Padding(0, 1)
	sourceStyle  = lipgloss.NewStyle().Faint(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question answered from the indexed documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		cfg, store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		embedder, err := newEmbedder(cfg)
		if err != nil {
			return err
		}
		defer embedder.Close()

		completer, err := newCompleter(cfg)
		if err != nil {
			return err
		}
		defer completer.Close()

		if err := embedder.Ping(cmd.Context()); err != nil {
			return fmt.Errorf("embedding provider unreachable: %w", err)
		}

		vectors := store.VectorStore()
		answerService := services.NewAnswerService(
			services.NewAnalyzer(),
			services.NewMultiQueryService(vectors, embedder),
			vectors,
			embedder,
			completer,
		)

		answer, err := answerService.Ask(cmd.Context(), question, nil, flagCatalog)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), answerStyle.Render(answer.Text))
		if len(answer.Sources) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), sectionStyle.Render("Fontes:"))
			for _, source := range answer.Sources {
				fmt.Fprintln(cmd.OutOrStdout(), sourceStyle.Render("  - "+source))
			}
		}
		if answer.Usage.TotalTokens > 0 {
			fmt.Fprintln(cmd.OutOrStdout(),
				sourceStyle.Render(fmt.Sprintf("tokens: %d", answer.Usage.TotalTokens)))
		}
		return nil
	},
}
