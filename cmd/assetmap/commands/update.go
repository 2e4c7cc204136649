package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/assetmap/internal/app"
	"go.trai.ch/assetmap/internal/ui/style"
)

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rescan the roots and bring the resource graph up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			inProcess, _ := cmd.Flags().GetBool("in-process")
			report, err := c.app.Update(cmd.Context(), app.UpdateOptions{
				ConfigPath: configPath(cmd),
				NoCache:    noCache,
				InProcess:  inProcess,
			})
			if err != nil {
				return err
			}
			printReport(cmd, report)
			return nil
		},
	}
	cmd.Flags().BoolP("no-cache", "n", false, "Ignore the persisted graph and rebuild from scratch")
	cmd.Flags().Bool("in-process", false, "Analyze files in this process instead of spawning workers")
	return cmd
}

func printReport(cmd *cobra.Command, r *app.UpdateReport) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s %d resources %s\n",
		style.Success.Render(style.Check),
		r.Resources,
		style.Muted.Render(fmt.Sprintf("(+%d ~%d -%d) in %s", r.Added, r.Modified, r.Removed, r.Duration.Round(time.Millisecond))),
	)
	if len(r.Skipped) > 0 {
		_, _ = fmt.Fprintf(out, "%s %d files matched no loader\n", style.Notice.Render(style.Warning), len(r.Skipped))
	}
	if r.Saved {
		_, _ = fmt.Fprintf(out, "%s cache written to %s\n", style.Muted.Render(style.Dot), r.CachePath)
		return
	}
	_, _ = fmt.Fprintf(out, "%s cache up to date\n", style.Muted.Render(style.Tilde))
}
