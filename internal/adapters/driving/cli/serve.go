package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	configfile "github.com/zraval/portfolio-assistant/internal/adapters/driven/config/file"
	"github.com/zraval/portfolio-assistant/internal/adapters/driving/httpapi"
	"github.com/zraval/portfolio-assistant/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant HTTP server",
	Long: `Runs the HTTP server exposing the chat proxy endpoint, the
knowledge read endpoint and a health check, optionally serving the
portfolio site's static files.

Endpoints:
  POST /api/chat  Chat completion (SSE with ?stream=1)
  GET  /api/data  Raw knowledge document
  GET  /api/ping  Health check`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	var prompts *configfile.PromptStore
	if p, err := configfile.NewPromptStore(""); err == nil {
		prompts = p
	} else {
		logger.Warn("prompt store unavailable: %v", err)
	}

	server := httpapi.New(httpapi.Config{
		Addr:      addr,
		StaticDir: cfg.Server.StaticDir,
		RateLimit: cfg.Server.RateLimit,
		RateBurst: cfg.Server.RateBurst,
		Owner:     cfg.Owner,
	}, newCompletionService(), newDocumentSource(), prompts)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	cmd.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
