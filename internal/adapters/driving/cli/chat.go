package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zraval/portfolio-assistant/internal/adapters/driving/tui"
	"github.com/zraval/portfolio-assistant/internal/knowledge"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

// chatCmd represents the chat command.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch the interactive terminal chat with the portfolio assistant.

Controls:
  Enter    - Ask
  Tab      - Cycle suggestion chips
  F1       - Toggle help
  Ctrl+C   - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat UI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx := cmd.Context()
	assistant := newAssistant(ctx)

	// The chat session is long-running, so pick up knowledge edits as
	// they happen when watching is enabled.
	if cfg.Knowledge.Watch {
		files := []string{cfg.Knowledge.File}
		if cfg.Knowledge.SiteFile != "" {
			files = append(files, cfg.Knowledge.SiteFile)
		}
		if cfg.Knowledge.IntentsFile != "" {
			files = append(files, cfg.Knowledge.IntentsFile)
		}
		reload := func(ctx context.Context) {
			if err := assistant.LoadKnowledge(ctx); err != nil {
				logger.Warn("knowledge reload: %v", err)
			}
		}
		watcher, err := knowledge.NewWatcher(reload, files...)
		if err != nil {
			logger.Warn("knowledge watcher unavailable: %v", err)
		} else if err := watcher.Start(ctx); err != nil {
			logger.Warn("knowledge watcher: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	app, err := tui.NewApp(assistant)
	if err != nil {
		return fmt.Errorf("failed to create chat UI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat UI error: %w", err)
	}
	return nil
}
