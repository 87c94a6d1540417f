package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/harun/mcploop/internal/metrics"
	"github.com/harun/mcploop/internal/tracing"
	"github.com/harun/mcploop/pkg/toolexecutor"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultMaxIterations is the iteration budget when none is configured.
const DefaultMaxIterations = 4

// Runner drives the tool loop.
type Runner struct {
	invoker       *Invoker
	session       toolexecutor.ToolSession
	logger        zerolog.Logger
	metrics       *metrics.Metrics
	maxIterations int
	reasoningTool string
	verifyTool    string

	mu    sync.Mutex
	state RunState
}

// Config holds runner configuration
type Config struct {
	Provider      LLMProvider
	Session       toolexecutor.ToolSession
	Logger        zerolog.Logger
	Metrics       *metrics.Metrics
	MaxIterations int
	Timeout       time.Duration
	ReasoningTool string
	VerifyTool    string
}

// NewRunner creates a new agent runner
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("model provider is required")
	}
	if cfg.Session == nil {
		return nil, fmt.Errorf("tool session is required")
	}
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("max iterations cannot be negative")
	}

	maxIterations := cfg.MaxIterations
	if maxIterations == 0 {
		maxIterations = DefaultMaxIterations
	}
	reasoningTool := cfg.ReasoningTool
	if reasoningTool == "" {
		reasoningTool = DefaultReasoningTool
	}
	verifyTool := cfg.VerifyTool
	if verifyTool == "" {
		verifyTool = DefaultVerifyTool
	}

	return &Runner{
		invoker:       NewInvoker(cfg.Provider, cfg.Timeout, cfg.Logger, cfg.Metrics),
		session:       cfg.Session,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		maxIterations: maxIterations,
		reasoningTool: reasoningTool,
		verifyTool:    verifyTool,
	}, nil
}

// Run executes one loop for query. The returned error is non-nil only when
// the run was aborted; running out of iterations is OutcomeIncomplete.
func (r *Runner) Run(ctx context.Context, query string) (RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = tracing.NewRunContext(ctx)
	ctx, span := tracing.StartSpan(ctx, "agent.run", attribute.Int("max_iterations", r.maxIterations))
	logger := tracing.LoggerFromContext(ctx, r.logger)

	r.state.Reset()
	defer r.state.Reset()

	start := time.Now()
	logger.Info().Str("query", query).Msg("Starting agent run")

	result := r.execute(ctx, query)

	r.metrics.ObserveRun(string(result.Outcome), time.Since(start))
	tracing.EndSpan(span, result.Err)

	event := logger.Info()
	if result.Err != nil {
		event = logger.Error().Err(result.Err)
	}
	event.Str("outcome", string(result.Outcome)).
		Int("iterations", result.Iterations).
		Dur("elapsed", time.Since(start)).
		Msg("Agent run finished")

	return result, result.Err
}

func (r *Runner) execute(ctx context.Context, query string) RunResult {
	tools, err := r.session.ListTools(ctx)
	if err != nil {
		return r.abort(fmt.Errorf("list tools: %w", err))
	}

	catalog := toolexecutor.Describe(tools)
	system := SystemPromptFor(catalog, r.reasoningTool, r.verifyTool)
	logger := tracing.LoggerFromContext(ctx, r.logger)
	logger.Debug().
		Int("tools", len(tools)).
		Str("catalog", catalog).
		Msg("Created system prompt")

	for r.state.Iteration < r.maxIterations {
		n, q := r.state.advance(query)
		iterCtx := tracing.WithIteration(ctx, n)
		logger := tracing.LoggerFromContext(iterCtx, r.logger)

		r.metrics.ObserveIteration(len(q))
		logger.Info().Int("query_len", len(q)).Msg("Starting iteration")

		rec := IterationRecord{Iteration: n}

		text, err := r.invoker.Invoke(iterCtx, ComposePrompt(system, q))
		if err != nil {
			rec.Err = err
			r.state.record(rec)
			return r.abort(err)
		}
		rec.Response = text
		logger.Debug().Str("response", text).Msg("Model responded")

		directive, err := ParseDirective(text)
		if err != nil {
			r.metrics.ObserveParseError()
			logger.Warn().Err(err).Str("response", text).Msg("Skipping unparseable model response")
			rec.Err = err
			r.state.record(rec)
			continue
		}
		rec.Directive = directive

		switch d := directive.(type) {
		case FinalAnswer:
			logger.Info().Interface("answer", d.Value).Msg("Agent execution complete")
			r.state.record(rec)
			result := r.state.result(OutcomeFinalAnswer)
			result.FinalAnswer = d.Value
			return result

		case ToolCall:
			if err := r.dispatch(iterCtx, n, d, tools, &rec); err != nil {
				line := fmt.Sprintf("Error in iteration %d: %v", n, err)
				r.state.appendTranscript(line)
				rec.TranscriptLine = line
				rec.Err = err
				r.state.record(rec)
				logger.Error().Err(err).Str("tool", d.Name).Interface("parameters", d.Params).Msg("Tool dispatch failed")
				return r.abort(err)
			}
			r.state.record(rec)
		}
	}

	return r.state.result(OutcomeIncomplete)
}

func (r *Runner) abort(err error) RunResult {
	result := r.state.result(OutcomeAborted)
	result.Err = err
	return result
}

// dispatch resolves, coerces and invokes one tool call, then appends the
// transcript line for it.
func (r *Runner) dispatch(ctx context.Context, n int, call ToolCall, tools []toolexecutor.Descriptor, rec *IterationRecord) error {
	tool, ok := toolexecutor.Lookup(tools, call.Name)
	if !ok {
		return &UnknownToolError{Name: call.Name, Available: toolexecutor.Names(tools)}
	}

	args, err := toolexecutor.Coerce(tool.Params, call.Params)
	if err != nil {
		return err
	}
	rec.Arguments = args

	ctx = tracing.WithToolName(ctx, call.Name)
	ctx, span := tracing.StartSpan(ctx, "agent.tool_call", attribute.String("tool", call.Name))
	logger := tracing.LoggerFromContext(ctx, r.logger)
	logger.Debug().Str("arguments", args.String()).Msg("Calling tool")

	start := time.Now()
	res, err := r.session.CallTool(ctx, call.Name, args)
	elapsed := time.Since(start)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrToolInvocation, call.Name, err)
		r.metrics.ObserveToolCall(call.Name, "error", elapsed)
		tracing.EndSpan(span, err)
		return err
	}

	status := "success"
	if res.IsError {
		status = "tool_error"
	}
	r.metrics.ObserveToolCall(call.Name, status, elapsed)
	tracing.EndSpan(span, nil)

	rec.Result = res
	r.state.LastResult = res
	line := r.transcriptLine(n, call.Name, args, res)
	rec.TranscriptLine = line
	r.state.appendTranscript(line)

	logger.Info().Str("result", res.String()).Dur("elapsed", elapsed).Msg("Tool returned")
	return nil
}

func (r *Runner) transcriptLine(n int, name string, args *toolexecutor.Arguments, res *toolexecutor.CallResult) string {
	result := res.String()
	line := fmt.Sprintf("User: In the %d iteration you called %s with %s parameters, and the function returned %s.", n, name, args, result)

	switch {
	case name == r.reasoningTool:
		return line + " Now proceed to do the calculations."
	case name == r.verifyTool && verified(result):
		return line + " Verified. Next step?"
	default:
		return line + " Let's verify the result."
	}
}

func verified(result string) bool {
	switch result {
	case "True", "true", "[True]", "[true]":
		return true
	}
	return false
}
