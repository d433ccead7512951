package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyClassify_Fine(t *testing.T) {
	tests := []struct {
		net      float64
		expected string
	}{
		{-3.2, LabelSevereErosion},
		{-1.0, LabelSevereErosion},
		{-0.99, LabelModerateErosion},
		{-0.6, LabelModerateErosion},
		{-0.5, LabelMildErosion},
		{-0.11, LabelMildErosion},
		{-0.1, LabelStable},
		{0, LabelStable},
		{0.1, LabelStable},
		{0.11, LabelMildAccretion},
		{0.5, LabelMildAccretion},
		{0.51, LabelModerateAccretion},
		{1.0, LabelModerateAccretion},
		{1.01, LabelStrongAccretion},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PolicyFine.Classify(tt.net).Label, "net=%v", tt.net)
	}
}

func TestPolicyClassify_Coarse(t *testing.T) {
	tests := []struct {
		net      float64
		expected string
	}{
		{-1.5, LabelSevereErosion},
		{-1.0, LabelSevereErosion},
		{-0.7, LabelModerateErosion},
		{-0.5, LabelStableShoreline},
		{0, LabelStableShoreline},
		{0.1, LabelStableShoreline},
		{0.2, LabelModerateAccretion},
		{0.5, LabelModerateAccretion},
		{0.50001, LabelStrongAccretion},
		{4, LabelStrongAccretion},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, PolicyCoarse.Classify(tt.net).Label, "net=%v", tt.net)
	}
}

func TestPolicyClassify_Direction(t *testing.T) {
	assert.Equal(t, DirectionErosion, PolicyFine.Classify(-0.3).Direction)
	assert.Equal(t, DirectionStable, PolicyFine.Classify(0.05).Direction)
	assert.Equal(t, DirectionAccretion, PolicyCoarse.Classify(0.3).Direction)
}

func TestPolicyReference(t *testing.T) {
	fine := PolicyFine.Reference()
	require.Len(t, fine, 7)
	assert.Equal(t, LabelSevereErosion, fine[0].Label)
	assert.Equal(t, LabelStrongAccretion, fine[6].Label)

	coarse := PolicyCoarse.Reference()
	require.Len(t, coarse, 5)

	// Returned tables are copies.
	coarse[0].Label = "changed"
	assert.Equal(t, LabelSevereErosion, PolicyCoarse.Reference()[0].Label)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("FINE")
	require.NoError(t, err)
	assert.Equal(t, PolicyFine, p)

	_, err = ParsePolicy("medium")
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestInterpret(t *testing.T) {
	assert.Equal(t, interpretationErosion, Interpret(-0.01))
	assert.Equal(t, interpretationStable, Interpret(0))
	assert.Equal(t, interpretationStable, Interpret(0.4))
}
