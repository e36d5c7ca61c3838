package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Validates(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
}

func TestPolicy_Validate_RejectsNonPositiveActivationSteps(t *testing.T) {
	p := DefaultPolicy()
	p.ActivationSteps = 0
	require.Error(t, p.Validate())
}

func TestPolicy_Validate_RejectsActivationDecayOutOfRange(t *testing.T) {
	p := DefaultPolicy()
	p.ActivationDecay = 1.5
	require.Error(t, p.Validate())

	p = DefaultPolicy()
	p.ActivationDecay = 0
	require.Error(t, p.Validate())
}

func TestPolicy_Validate_RejectsActivationThresholdOutOfRange(t *testing.T) {
	p := DefaultPolicy()
	p.ActivationThreshold = -0.1
	require.Error(t, p.Validate())

	p = DefaultPolicy()
	p.ActivationThreshold = 1.1
	require.Error(t, p.Validate())
}

func TestPolicy_Validate_RejectsNonPositiveHalfLife(t *testing.T) {
	p := DefaultPolicy()
	p.EnergyHalfLifeDays = 0
	require.Error(t, p.Validate())
}

func TestPolicy_Validate_RejectsZeroRecallWeights(t *testing.T) {
	p := DefaultPolicy()
	p.RecallActivationWeight = 0
	p.RecallRecencyWeight = 0
	p.RecallImportanceWeight = 0
	require.Error(t, p.Validate())
}
