// Package lifecycle defines the legal state transitions of a receipt.
// It is a pure transition table: given a current state and an event it yields
// the next state and whether the receipt's error text must be cleared.
// No I/O happens here; callers persist the result.
package lifecycle

import (
	"fmt"

	"receiptscan/internal/model"
)

// Event is something that happens to a receipt.
type Event string

const (
	// EventClaim marks a pending receipt as being worked on by exactly one
	// processing run. Persisting the claimed state is what makes the receipt
	// invisible to concurrent runs.
	EventClaim Event = "claim"
	// EventAnalysisSucceeded terminates the active window with extracted fields.
	EventAnalysisSucceeded Event = "analysis_succeeded"
	// EventAnalysisFailed terminates the active window with an error.
	EventAnalysisFailed Event = "analysis_failed"
	// EventRevise records that an operator started editing extracted fields.
	EventRevise Event = "revise"
	// EventApprove finalizes a reviewed receipt.
	EventApprove Event = "approve"
	// EventRepeat forces a receipt back to the start of the pipeline.
	EventRepeat Event = "repeat"
	// EventRecover resets a stale claim as if the crashed run never started.
	EventRecover Event = "recover"
)

// Transition is the outcome of applying an event to a state.
type Transition struct {
	Next       model.State
	ClearError bool
}

// ErrIllegalTransition is returned when an event is not legal in the current state.
type ErrIllegalTransition struct {
	From  model.State
	Event Event
}

func (e *ErrIllegalTransition) Error() string {
	return fmt.Sprintf("illegal transition: event %q in state %q", e.Event, e.From)
}

type key struct {
	from  model.State
	event Event
}

// transitions is the whole pipeline graph. Backward edges exist only for the
// operator repeat action and the recovery sweep.
var transitions = map[key]Transition{
	{model.StateUploadComplete, EventClaim}: {Next: model.StateAnalysisActive, ClearError: true},

	{model.StateAnalysisActive, EventAnalysisSucceeded}: {Next: model.StateAnalysisComplete, ClearError: true},
	{model.StateAnalysisActive, EventAnalysisFailed}:    {Next: model.StateAnalysisFailed},
	{model.StateAnalysisActive, EventRecover}:           {Next: model.StateUploadComplete, ClearError: true},

	{model.StateAnalysisComplete, EventRevise}:  {Next: model.StateRevisionActive},
	{model.StateAnalysisComplete, EventApprove}: {Next: model.StateRevisionComplete},

	{model.StateRevisionActive, EventRevise}:  {Next: model.StateRevisionActive},
	{model.StateRevisionActive, EventApprove}: {Next: model.StateRevisionComplete},
}

// Next applies event to from and returns the resulting transition.
// EventRepeat is legal from every state and always clears the error.
func Next(from model.State, event Event) (Transition, error) {
	if event == EventRepeat {
		if !from.Valid() {
			return Transition{}, &ErrIllegalTransition{From: from, Event: event}
		}
		return Transition{Next: model.StateUploadComplete, ClearError: true}, nil
	}
	t, ok := transitions[key{from, event}]
	if !ok {
		return Transition{}, &ErrIllegalTransition{From: from, Event: event}
	}
	return t, nil
}
