package model

// State is the receipt's position in the processing pipeline.
//
// UPLOAD_COMPLETE is the sole pending state: every receipt starts there and
// returns there on recovery or when an operator requests a re-run.
// ANALYSIS_ACTIVE is a transient claim marker owned by exactly one processing
// run; it is never a resting state.
type State string

const (
	StateUploadComplete   State = "UPLOAD_COMPLETE"
	StateAnalysisActive   State = "ANALYSIS_ACTIVE"
	StateAnalysisComplete State = "ANALYSIS_COMPLETE"
	StateAnalysisFailed   State = "ANALYSIS_FAILED"
	StateRevisionActive   State = "REVISION_ACTIVE"
	StateRevisionComplete State = "REVISION_COMPLETE"
)

// Valid reports whether s is one of the defined pipeline states.
func (s State) Valid() bool {
	switch s {
	case StateUploadComplete, StateAnalysisActive, StateAnalysisComplete,
		StateAnalysisFailed, StateRevisionActive, StateRevisionComplete:
		return true
	}
	return false
}

// Active reports whether s is a transient claim state.
func (s State) Active() bool {
	return s == StateAnalysisActive
}

// Failed reports whether s is a failure state carrying an error message.
func (s State) Failed() bool {
	return s == StateAnalysisFailed
}

func (s State) String() string {
	return string(s)
}
