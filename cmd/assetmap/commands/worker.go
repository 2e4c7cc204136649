package commands

import (
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/assetmap/internal/adapters/worker"
)

func (c *CLI) newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    worker.WorkerCommand,
		Short:  "Serve analysis requests on stdin/stdout",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.ServeWorker(cmd.Context(), cmd.InOrStdin(), os.Stdout)
		},
	}
}
