package processing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"marketmood/internal/processing"
)

func TestCleanHeadline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "html entities", input: "Reliance Q3 profit up 12% &amp; beats estimates", want: "Reliance Q3 profit up 12% & beats estimates"},
		{name: "collapse whitespace", input: "TCS\n\nwins\t deal", want: "TCS wins deal"},
		{name: "remove urls", input: "Read more at https://example.com/story today", want: "Read more at today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.CleanHeadline(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", processing.Truncate("short", 10))
	require.Equal(t, "exact", processing.Truncate("exact", 5))
	require.Equal(t, "truncated...", processing.Truncate("truncated text here", 10))
	require.Equal(t, "unlimited", processing.Truncate("unlimited", 0))
}

func TestScoringText(t *testing.T) {
	require.Equal(t, "summary text", processing.ScoringText("title", "summary text"))
	require.Equal(t, "title only", processing.ScoringText("title only", ""))
	require.Equal(t, "title", processing.ScoringText("title", "   "))
}
