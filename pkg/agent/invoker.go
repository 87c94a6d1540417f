package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harun/mcploop/internal/metrics"
	"github.com/harun/mcploop/internal/tracing"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 10 * time.Second

// Invoker calls a provider under a timeout. It never retries.
type Invoker struct {
	provider LLMProvider
	timeout  time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewInvoker creates an invoker; a non-positive timeout means DefaultTimeout.
func NewInvoker(provider LLMProvider, timeout time.Duration, logger zerolog.Logger, m *metrics.Metrics) *Invoker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Invoker{
		provider: provider,
		timeout:  timeout,
		logger:   logger,
		metrics:  m,
	}
}

type generation struct {
	text string
	err  error
}

// Invoke sends prompt to the model and returns the trimmed response text.
// Errors wrap ErrModelTimeout when the deadline elapsed and ErrModelBackend
// otherwise.
func (i *Invoker) Invoke(ctx context.Context, prompt string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "agent.model_call",
		attribute.String("provider", i.provider.Provider()),
		attribute.Int("prompt_len", len(prompt)),
	)
	logger := tracing.LoggerFromContext(ctx, i.logger)

	callCtx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	// Buffered so an abandoned call can still deliver and exit.
	done := make(chan generation, 1)
	start := time.Now()
	go func() {
		text, err := i.provider.Generate(callCtx, prompt)
		done <- generation{text: text, err: err}
	}()

	logger.Debug().Msg("Starting LLM generation")

	var res generation
	select {
	case res = <-done:
	case <-callCtx.Done():
		res.err = callCtx.Err()
	}
	elapsed := time.Since(start)

	err := res.err
	status := "success"
	switch {
	case err == nil:
	case errors.Is(callCtx.Err(), context.DeadlineExceeded):
		status = "timeout"
		err = fmt.Errorf("%w after %s", ErrModelTimeout, i.timeout)
	default:
		status = "error"
		err = fmt.Errorf("%w: %w", ErrModelBackend, err)
	}

	i.metrics.ObserveModelCall(i.provider.Provider(), status, elapsed)
	tracing.EndSpan(span, err)

	if err != nil {
		logger.Error().Err(err).Dur("elapsed", elapsed).Msg("LLM generation failed")
		return "", err
	}

	logger.Debug().Dur("elapsed", elapsed).Msg("LLM generation completed")
	return strings.TrimSpace(res.text), nil
}
