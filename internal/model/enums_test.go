package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriorityCaseInsensitive(t *testing.T) {
	assert.Equal(t, PriorityLow, ParsePriority("low"))
	assert.Equal(t, PriorityLow, ParsePriority("LOW"))
	assert.Equal(t, PriorityHigh, ParsePriority("High"))
	assert.Equal(t, PriorityCritical, ParsePriority("CRITICAL"))
	assert.Equal(t, PriorityNormal, ParsePriority("unknown"))
}

func TestPriorityOrdering(t *testing.T) {
	assert.True(t, PriorityLow < PriorityNormal)
	assert.True(t, PriorityNormal < PriorityHigh)
	assert.True(t, PriorityHigh < PriorityCritical)
}

func TestPriorityJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(PriorityHigh)
	require.NoError(t, err)
	assert.JSONEq(t, `"High"`, string(data))

	var p Priority
	require.NoError(t, json.Unmarshal([]byte(`"critical"`), &p))
	assert.Equal(t, PriorityCritical, p)
}

func TestPhaseNormalizeResolvesLegacyAliases(t *testing.T) {
	assert.Equal(t, PhasePlanning, PhaseAnalysisAndDocumentation.Normalize())
	assert.Equal(t, PhasePlanning, PhaseInDiscussion.Normalize())
	assert.Equal(t, PhaseImplementation, PhaseInImplementation.Normalize())
	assert.Equal(t, PhaseAIReview, PhaseInReview.Normalize())
	assert.Equal(t, PhaseTesting, PhaseInTesting.Normalize())
	assert.Equal(t, PhasePlanning, PhasePlanning.Normalize())
}

func TestIsCustomConditionRecognizesBuiltins(t *testing.T) {
	assert.False(t, IsCustomCondition(ConditionSuccess))
	assert.False(t, IsCustomCondition(ConditionFailure))
	assert.False(t, IsCustomCondition(ConditionCompletion))
	assert.True(t, IsCustomCondition(DependencyCondition("output.contains('ready')")))
}
