package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const mask = '*'

// The dictionary uses specific words to avoid partial collisions
// (e.g. "he" inside "The").
func TestModerator_Scan(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"badger", "snake", "mushroom"}, mask)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		hits     int
	}{
		{
			name:     "simple word with preserved spacing",
			input:    "The badger is here",
			expected: "The ****** is here",
			hits:     1,
		},
		{
			name:     "multiple occurrences",
			input:    "badger badger badger",
			expected: "****** ****** ******",
			hits:     3,
		},
		{
			name:     "leet speak and internal punctuation",
			input:    "Look at B.4.d.g.€r !",
			expected: "Look at ********** !",
			hits:     1,
		},
		{
			name:     "uppercase and noise",
			input:    "S-N-A-K-E is a B.A.D.G.E.R",
			expected: "********* is a ***********",
			hits:     2,
		},
		{
			name:     "word adjacent to trailing punctuation",
			input:    "I love badger!",
			expected: "I love ******!",
			hits:     1,
		},
		{
			name:     "nothing to censor",
			input:    "Parley is amazing",
			expected: "Parley is amazing",
			hits:     0,
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
			hits:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := mod.Scan(tt.input)
			require.Equal(t, tt.expected, res.Content)
			require.Len(t, res.Hits, tt.hits)
			require.Equal(t, tt.hits > 0, res.Flagged())
		})
	}
}

func TestModerator_Scan_PreservesRuneLength(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"badger"}, mask)
	req.NoError(err)

	input := "Un été avec un badger"
	res := mod.Scan(input)

	req.Equal(len([]rune(input)), len([]rune(res.Content)))
	req.Equal("Un été avec un ******", res.Content)
}
