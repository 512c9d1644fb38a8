package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseb33w/google-docs-mcp-server/internal/catalog"
	"github.com/joseb33w/google-docs-mcp-server/internal/config"
	"github.com/joseb33w/google-docs-mcp-server/internal/core"
	"github.com/joseb33w/google-docs-mcp-server/internal/db"
)

func newToolsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tool catalog exposed under the current allow and deny lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			cat := core.NewPolicy(cfg.ToolAllowlist, cfg.ToolDenylist).FilterCatalog(catalog.Default())
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{"tools": cat.List()})
			}
			return catalog.RenderMarkdown(cmd.OutOrStdout(), cat)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tools/list payload as JSON")
	return cmd
}

func newAuditCommand() *cobra.Command {
	var (
		tool  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recorded tool calls from the audit database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required for audit")
			}
			database, err := db.New(cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			calls, err := database.ListToolCalls(cmd.Context(), tool, limit)
			if err != nil {
				return err
			}
			return printToolCalls(cmd, calls)
		},
	}
	cmd.Flags().StringVar(&tool, "tool", "", "only show calls of this tool")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of calls to show")
	return cmd
}

func printToolCalls(cmd *cobra.Command, calls []*db.ToolCall) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTRANSPORT\tTOOL\tSTATUS\tDURATION\tDETAIL")
	for _, c := range calls {
		detail := ""
		if c.Message != nil {
			detail = *c.Message
		}
		if c.FailureKind != nil {
			detail = *c.FailureKind + ": " + detail
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%dms\t%s\n",
			c.CreatedAt.Format(time.RFC3339), c.Transport, c.ToolName, c.Status, c.DurationMS, detail)
	}
	return tw.Flush()
}
