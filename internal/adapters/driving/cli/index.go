package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zraval/portfolio-assistant/internal/core/domain"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the knowledge index and print statistics",
	Long: `Loads the knowledge document, builds the passage index and
prints per-type item counts. Useful for checking what the assistant
can answer from after editing the knowledge document.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	assistant := newAssistant(cmd.Context())
	if !assistant.Ready() {
		return fmt.Errorf("no knowledge source available (looked for %q)", cfg.Knowledge.File)
	}

	kb := assistant.KnowledgeBase()
	counts := make(map[domain.ItemType]int)
	for _, it := range kb.Items {
		counts[it.Type]++
	}

	cmd.Printf("Indexed %d items:\n", kb.Len())
	for _, t := range []domain.ItemType{
		domain.ItemSection, domain.ItemProject, domain.ItemContact,
		domain.ItemResume, domain.ItemFAQ, domain.ItemDOM,
	} {
		if counts[t] > 0 {
			cmd.Printf("  %-8s %d\n", t, counts[t])
		}
	}
	return nil
}
