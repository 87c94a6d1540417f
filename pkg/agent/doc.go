// Package agent runs the iterative tool loop: it prompts a model with the
// tool catalog, parses the single JSON directive it answers with, dispatches
// tool calls through a toolexecutor.ToolSession and folds each result back
// into the next query.
//
// Invariants:
// - One operation is outstanding at a time; a Runner serializes its runs.
// - The iteration count only grows and never exceeds the configured maximum.
// - A run ends on a final answer, a fatal error, or the iteration bound.
//
// Usage:
//
//	runner, _ := agent.NewRunner(agent.Config{
//		Provider: provider,
//		Session:  session,
//		Logger:   logger,
//	})
//	result, err := runner.Run(ctx, "Find the ASCII values of characters in INDIA")
//	_ = result
package agent
