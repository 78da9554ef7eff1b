package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateValid(t *testing.T) {
	for _, s := range []State{
		StateUploadComplete, StateAnalysisActive, StateAnalysisComplete,
		StateAnalysisFailed, StateRevisionActive, StateRevisionComplete,
	} {
		assert.True(t, s.Valid(), "state %s", s)
	}

	assert.False(t, State("").Valid())
	assert.False(t, State("ANALYSIS_PENDING").Valid())
}

func TestStateActive(t *testing.T) {
	assert.True(t, StateAnalysisActive.Active())
	assert.False(t, StateUploadComplete.Active())
	assert.False(t, StateRevisionActive.Active())
}

func TestStateFailed(t *testing.T) {
	assert.True(t, StateAnalysisFailed.Failed())
	assert.False(t, StateAnalysisComplete.Failed())
}
