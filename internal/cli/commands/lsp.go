package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/graphc/internal/lsp"
)

// NewLSPCommand creates the lsp command
func NewLSPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the graphc language server",
		Long: `Start a Language Server Protocol server on stdin and stdout.

The server compiles the workspace whenever a document is opened, changed,
saved or closed, and publishes the same diagnostics 'graphc compile' reports.
Unsaved editor contents are compiled in place of the files on disk. Logs are
written to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			if !verbose {
				if l, err := zap.NewProduction(); err == nil {
					logger = l
				}
			}
			defer logger.Sync()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return lsp.NewServer(logger.Named("lsp")).Run(ctx)
		},
	}
}
