package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "opentargets-mcp",
		Short: "MCP server for the Open Targets Platform GraphQL API",
		Long: "MCP server for the Open Targets Platform GraphQL API.\n\n" +
			"Without a subcommand it serves over stdio, as MCP clients expect.\n" +
			"Settings are read from the environment (OPENTARGETS_API_ENDPOINT,\n" +
			"MCP_TRANSPORT, LOG_LEVEL, ...); flags override them.",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")

	flags := &serveFlags{}
	addServeFlags(root, flags)
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, flags)
	}

	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
