package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MeasureArithmetic(t *testing.T) {
	e, err := Parse("[Measures].[POAmount] / [Measures].[POCount]")
	require.NoError(t, err)

	b, ok := e.(*Binary)
	require.True(t, ok)
	assert.Equal(t, "/", b.Op)
	assert.Equal(t, &MeasureRef{Name: "POAmount"}, b.Left)
	assert.Equal(t, &MeasureRef{Name: "POCount"}, b.Right)
}

func TestParse_Precedence(t *testing.T) {
	e, err := Parse("[Measures].[A] + [Measures].[B] * 2")
	require.NoError(t, err)

	// Multiplication binds tighter than addition.
	assert.Equal(t, "([Measures].[A] + ([Measures].[B] * 2))", e.String())
}

func TestParse_Parentheses(t *testing.T) {
	e, err := Parse("([Measures].[A] - [Measures].[B]) / [Measures].[B] * 100")
	require.NoError(t, err)
	assert.Equal(t, "((([Measures].[A] - [Measures].[B]) / [Measures].[B]) * 100)", e.String())
}

func TestParse_Errors(t *testing.T) {
	for _, input := range []string{
		"",
		"[Measures].[A] +",
		"[Vessel].[VesselType]",
		"[Measures].[A] ^ 2",
		"(1 + 2",
		"[Measures].[A",
		"[Measures].[]",
	} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestMeasures_DistinctFirstReferenceOrder(t *testing.T) {
	e, err := Parse("([Measures].[A] - [Measures].[B]) / [Measures].[A]")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, Measures(e))
}
