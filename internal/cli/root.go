package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile       string
	logLevel      string
	maxIterations int
	modelTimeout  time.Duration
	providerName  string
	modelName     string
	serverSpec    string
)

// rootCmd runs a single query through the agent loop
var rootCmd = &cobra.Command{
	Use:   "mcploop [query...]",
	Short: "mcploop - iterative LLM agent over MCP tools",
	Long: `mcploop sends a query and the tool catalog of an MCP server to a language
model, calls the tool the model asks for, feeds the result back and repeats
until the model returns a final answer or the iteration budget runs out.

With no query the configured default query is used.`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	RunE:          runQuery,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext adds all child commands to the root command and runs it
// under ctx. This is called by main.main().
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mcploop/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&providerName, "provider", "", "model provider (gemini, anthropic, openai, ollama)")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", "", "model name")
	rootCmd.PersistentFlags().DurationVar(&modelTimeout, "timeout", 0, "per model call timeout, e.g. 10s")
	rootCmd.PersistentFlags().StringVar(&serverSpec, "server", "", "MCP server command line or http(s) URL")

	rootCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "maximum loop iterations")

	// Version template
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}
