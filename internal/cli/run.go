package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harun/mcploop/internal/config"
	"github.com/harun/mcploop/internal/logger"
	"github.com/harun/mcploop/internal/metrics"
	"github.com/harun/mcploop/internal/tracing"
	"github.com/harun/mcploop/pkg/agent"
	"github.com/harun/mcploop/pkg/toolexecutor"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Overridden in tests.
var (
	connectSession = func(ctx context.Context, cfg config.MCPConfig, log zerolog.Logger) (toolexecutor.ToolSession, error) {
		return toolexecutor.Connect(ctx, toolexecutor.ServerConfig{
			Command: cfg.Command,
			Args:    cfg.Args,
			Env:     cfg.Env,
			URL:     cfg.URL,
		}, log)
	}
	newProvider = func(ctx context.Context, cfg config.ModelConfig) (agent.LLMProvider, error) {
		return (&agent.ProviderFactory{}).NewProvider(ctx, cfg)
	}
)

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()
	zl := log.GetZerolog()
	zl.Debug().Str("config", cfg.String()).Msg("Loaded configuration")

	shutdownTracing, err := tracing.Setup(ctx, tracing.Options{ServiceVersion: version})
	if err != nil {
		zl.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() { _ = shutdownTracing(tracing.Detach(ctx)) }()
	}

	m := metrics.NewMetrics()
	if cfg.Metrics.Addr != "" {
		metricsCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := m.Serve(metricsCtx, cfg.Metrics.Addr, zl); err != nil {
				zl.Warn().Err(err).Str("addr", cfg.Metrics.Addr).Msg("Metrics listener failed")
			}
		}()
	}

	session, err := connectSession(ctx, cfg.MCP, zl)
	if err != nil {
		return fmt.Errorf("connect to MCP server: %w", err)
	}
	defer session.Close()

	llm, err := newProvider(ctx, cfg.Model)
	if err != nil {
		return err
	}

	runner, err := agent.NewRunner(agent.Config{
		Provider:      llm,
		Session:       session,
		Logger:        zl,
		Metrics:       m,
		MaxIterations: cfg.Loop.MaxIterations,
		Timeout:       cfg.Model.Timeout,
		ReasoningTool: cfg.Loop.ReasoningTool,
		VerifyTool:    cfg.Loop.VerifyTool,
	})
	if err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		query = cfg.Loop.DefaultQuery
	}

	result, err := runner.Run(ctx, query)
	printResult(cmd.OutOrStdout(), result, zl)
	return err
}

// printResult writes the final answer to out. Diagnostics go to the logger.
func printResult(out io.Writer, result agent.RunResult, log zerolog.Logger) {
	switch result.Outcome {
	case agent.OutcomeFinalAnswer:
		fmt.Fprintln(out, toolexecutor.FormatValue(result.FinalAnswer))
	case agent.OutcomeIncomplete:
		log.Warn().Int("iterations", result.Iterations).Msg("No final answer within the iteration budget")
	}
}

// loadConfig reads the config file and environment, then applies flags.
// The result is not validated.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") && providerName != cfg.Model.Provider {
		cfg.Model.Provider = providerName
		cfg.Model.Name = config.DefaultModel(providerName)
		cfg.Model.APIKey = ""
		cfg.ResolveAPIKey()
	}
	if flags.Changed("model") {
		cfg.Model.Name = modelName
	}
	if flags.Changed("timeout") {
		cfg.Model.Timeout = modelTimeout
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("max-iterations") {
		cfg.Loop.MaxIterations = maxIterations
	}
	if flags.Changed("server") {
		srv, err := toolexecutor.ParseServer(serverSpec)
		if err != nil {
			return nil, err
		}
		cfg.MCP = config.MCPConfig{Command: srv.Command, Args: srv.Args, URL: srv.URL, Env: cfg.MCP.Env}
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logCfg.Pretty = cfg.Logging.Pretty
	logCfg.Redaction = cfg.Logging.Redaction
	return logger.New(logCfg)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
