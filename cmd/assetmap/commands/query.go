package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/assetmap/internal/app"
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/ui/style"
)

func (c *CLI) newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Look up resources in the persisted graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, _ := cmd.Flags().GetString("type")
			id, _ := cmd.Flags().GetString("id")
			path, _ := cmd.Flags().GetString("path")
			asJSON, _ := cmd.Flags().GetBool("json")

			found, err := c.app.Query(cmd.Context(), app.QueryOptions{
				ConfigPath: configPath(cmd),
				Kind:       kind,
				ID:         id,
				Path:       path,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd, found)
			}
			printResources(cmd, found)
			return nil
		},
	}
	cmd.Flags().StringP("type", "t", "", "Resource type: module, stylesheet, image, font")
	cmd.Flags().String("id", "", "Resource id; requires --type")
	cmd.Flags().StringP("path", "p", "", "Resource path, relative to the settings directory")
	cmd.Flags().Bool("json", false, "Print full records as JSON")
	cmd.MarkFlagsMutuallyExclusive("path", "type")
	cmd.MarkFlagsMutuallyExclusive("path", "id")
	return cmd
}

func printResources(cmd *cobra.Command, found []domain.Resource) {
	out := cmd.OutOrStdout()
	if len(found) == 0 {
		_, _ = fmt.Fprintf(out, "%s no matching resources\n", style.Failure.Render(style.Cross))
		return
	}
	for _, r := range found {
		core := r.Core()
		_, _ = fmt.Fprintf(out, "%s %s %s\n", style.Kind.Render(r.Kind().String()), core.ID, style.Muted.Render(core.Path))
		for _, dep := range r.Dependencies() {
			_, _ = fmt.Fprintf(out, "  %s %s\n", style.Muted.Render("->"), dep.String())
		}
	}
}

func printJSON(cmd *cobra.Command, found []domain.Resource) error {
	records, err := domain.ToRecords(found)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
