package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/harun/mcploop/pkg/toolexecutor"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var toolsFormat string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools offered by the MCP server",
	Long: `Connect to the configured MCP server and print its tool catalog. The text
format is the numbered form the model sees in its system prompt; json and
yaml list each tool with its parameters in schema order.`,
	Args: cobra.NoArgs,
	RunE: runTools,
}

func init() {
	toolsCmd.Flags().StringVar(&toolsFormat, "format", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(toolsCmd)
}

type paramView struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	ItemsType   string `json:"items_type,omitempty" yaml:"items_type,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type toolView struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Params      []paramView `json:"params" yaml:"params"`
}

func runTools(cmd *cobra.Command, args []string) error {
	switch toolsFormat {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (must be: text, json, yaml)", toolsFormat)
	}

	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	session, err := connectSession(ctx, cfg.MCP, log.GetZerolog())
	if err != nil {
		return fmt.Errorf("connect to MCP server: %w", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx)
	if err != nil {
		return fmt.Errorf("list tools: %w", err)
	}

	return writeTools(cmd.OutOrStdout(), tools, toolsFormat)
}

func writeTools(out io.Writer, tools []toolexecutor.Descriptor, format string) error {
	if format == "text" {
		fmt.Fprintf(out, "%d tools\n", len(tools))
		fmt.Fprintln(out, toolexecutor.Describe(tools))
		return nil
	}

	views := make([]toolView, 0, len(tools))
	for _, t := range tools {
		v := toolView{Name: t.Name, Description: t.Description, Params: []paramView{}}
		for _, p := range t.Params {
			v.Params = append(v.Params, paramView(p))
		}
		views = append(views, v)
	}

	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(views); err != nil {
		return err
	}
	return enc.Close()
}
