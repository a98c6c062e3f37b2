package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var askHTML bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask the assistant a single question",
	Long: `Runs the full answer pipeline for one question and prints the
answer. Remote answer fragments stream to stdout as they arrive; the
final line carries the answer's source (llm, cached_llm,
knowledge_base or job_posting_matcher) when --verbose is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askHTML, "html", false, "print the HTML answer instead of plain text")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	assistant := newAssistant(cmd.Context())

	answer, err := assistant.Answer(cmd.Context(), args[0], nil)
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	if askHTML {
		cmd.Println(answer.HTML)
	} else {
		cmd.Println(answer.Plain)
	}
	if verbose {
		cmd.Printf("[source: %s]\n", answer.Source)
	}
	return nil
}
