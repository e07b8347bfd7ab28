package main

import (
	"log"

	"github.com/ironsheep/panopatch/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP tool server on stdin/stdout",
	Long: `Run a Model Context Protocol server speaking line-delimited JSON-RPC 2.0
on stdin/stdout. Configure it as a stdio server in your MCP client.

Logs go to stderr; set PANOPATCH_LOG_LEVEL=debug for verbose output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		server.Version = Version
		log.Printf("panopatch MCP server %s ready", Version)
		return server.New().Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
