package agent

import (
	"github.com/harun/mcploop/pkg/toolexecutor"
)

// RunState is the mutable state of one run, owned by the Runner.
type RunState struct {
	Iteration  int
	LastResult *toolexecutor.CallResult
	Query      string
	Transcript []string
	Records    []IterationRecord
}

// Reset clears the state. The Runner calls it when a run starts and ends.
func (s *RunState) Reset() {
	*s = RunState{}
}

// advance starts the next iteration and returns its 1-based number and
// query. Until a tool has returned a result the original query is reused.
func (s *RunState) advance(original string) (int, string) {
	s.Iteration++
	if s.LastResult == nil {
		s.Query = original
	} else {
		s.Query = NextQuery(s.Query, s.Transcript)
	}
	return s.Iteration, s.Query
}

func (s *RunState) record(rec IterationRecord) {
	s.Records = append(s.Records, rec)
}

func (s *RunState) appendTranscript(line string) {
	s.Transcript = append(s.Transcript, line)
}

func (s *RunState) result(outcome Outcome) RunResult {
	return RunResult{
		Outcome:    outcome,
		Iterations: s.Iteration,
		Transcript: append([]string(nil), s.Transcript...),
		Records:    append([]IterationRecord(nil), s.Records...),
	}
}
