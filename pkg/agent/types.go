package agent

import (
	"github.com/harun/mcploop/pkg/toolexecutor"
)

// FinalAnswerName is the function_name that ends a run.
const FinalAnswerName = "FINAL_ANSWER"

// Directive is the model's instruction for one iteration: a ToolCall or a
// FinalAnswer.
type Directive interface {
	directive()
}

// ToolCall asks for a tool to be invoked with positional parameters.
type ToolCall struct {
	Name   string `json:"function_name"`
	Params []any  `json:"parameters"`
}

// FinalAnswer carries the first parameter of a FINAL_ANSWER directive.
type FinalAnswer struct {
	Value any `json:"value"`
}

func (ToolCall) directive()    {}
func (FinalAnswer) directive() {}

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeFinalAnswer Outcome = "final_answer"
	OutcomeIncomplete  Outcome = "incomplete"
	OutcomeAborted     Outcome = "aborted"
)

// IterationRecord captures one pass through the loop.
type IterationRecord struct {
	Iteration      int
	Response       string
	Directive      Directive
	Arguments      *toolexecutor.Arguments
	Result         *toolexecutor.CallResult
	TranscriptLine string
	Err            error
}

// RunResult is the outcome of Runner.Run.
type RunResult struct {
	Outcome     Outcome
	FinalAnswer any
	Iterations  int
	Transcript  []string
	Records     []IterationRecord
	// Err is the fatal error of an aborted run.
	Err error
}
