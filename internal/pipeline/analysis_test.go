package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	t.Parallel()

	raw := `Here is my review.
[SCORE] 82 [/SCORE]
[FACTOR]Strong opening[/FACTOR]
[FACTOR]
Pacing drags in the middle
[/FACTOR]
[FACTOR]  [/FACTOR]
[SUMMARY]Tighter and clearer.[/SUMMARY]`

	a, err := ParseAnalysis(raw)
	require.NoError(t, err)
	assert.Equal(t, 82, a.Score)
	assert.Equal(t, []string{"Strong opening", "Pacing drags in the middle"}, a.Factors)
	assert.Equal(t, "Tighter and clearer.", a.Summary)
	assert.Equal(t, "Score: 82/100\n- Strong opening\n- Pacing drags in the middle\nTighter and clearer.", a.String())
}

func TestParseAnalysis_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"no tags", "The story is good, 8/10."},
		{"unterminated score", "[SCORE]80\n[FACTOR]x[/FACTOR]"},
		{"unterminated factor", "[SCORE]80[/SCORE][FACTOR]x"},
		{"stray closing tag", "[SCORE]80[/SCORE][FACTOR]x[/FACTOR][/SUMMARY]"},
		{"missing score", "[FACTOR]x[/FACTOR]"},
		{"repeated score", "[SCORE]80[/SCORE][SCORE]70[/SCORE][FACTOR]x[/FACTOR]"},
		{"score not a number", "[SCORE]high[/SCORE][FACTOR]x[/FACTOR]"},
		{"score out of range", "[SCORE]101[/SCORE][FACTOR]x[/FACTOR]"},
		{"negative score", "[SCORE]-1[/SCORE][FACTOR]x[/FACTOR]"},
		{"no factor", "[SCORE]80[/SCORE]"},
		{"only blank factors", "[SCORE]80[/SCORE][FACTOR] [/FACTOR]"},
		{"nested tag", "[SCORE]80[/SCORE][FACTOR]a [SUMMARY]b[/SUMMARY][/FACTOR]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, err := ParseAnalysis(tc.raw)
			assert.ErrorIs(t, err, ErrMalformedTag)
			assert.Nil(t, a)
		})
	}
}
