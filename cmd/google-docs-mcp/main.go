package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = ""
	gitCommit = ""
	buildTime = ""
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "google-docs-mcp",
		Short: "MCP server exposing Google Docs and Drive operations",
		Long: "google-docs-mcp serves Google Docs and Drive operations as MCP tools.\n" +
			"Without a subcommand it speaks JSON-RPC over stdin/stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runStdio,
	}
	root.AddCommand(
		newStdioCommand(),
		newHTTPCommand(),
		newNATSCommand(),
		newToolsCommand(),
		newAuditCommand(),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "google-docs-mcp %s (commit %s, built %s)\n",
				orUnknown(version), orUnknown(gitCommit), orUnknown(buildTime))
			return err
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
