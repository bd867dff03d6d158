package toolfold

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/grillo/pkg/memory"
)

func TestRenderValueUsesStringsVerbatim(t *testing.T) {
	require.Equal(t, "already a string", renderValue("already a string"))
}

func TestRenderValueSerializesMapsAsCompactJSON(t *testing.T) {
	require.Equal(t, `{"a":1,"b":"x"}`, renderValue(map[string]any{"b": "x", "a": 1}))
}

func TestRenderValueRendersNilAsNull(t *testing.T) {
	require.Equal(t, "null", renderValue(nil))
}

func TestRenderValueFallsBackOnUnserializableValues(t *testing.T) {
	ch := make(chan int)
	// json.Marshal can't handle channels; the fallback must still produce
	// something instead of erroring.
	require.NotEmpty(t, renderValue(ch))
}

func TestTruncateLeavesShortStringsAlone(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "exact", truncate("exact", 5))
}

func TestTruncateCutsAtExactlyMaxAndAppendsMarker(t *testing.T) {
	long := strings.Repeat("x", 50)
	out := truncate(long, 20)

	require.True(t, strings.HasSuffix(out, TruncationMarker))
	pre := strings.TrimSuffix(out, TruncationMarker)
	require.Len(t, []rune(pre), 20)
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("é", 30)
	out := truncate(long, 10)

	pre := strings.TrimSuffix(out, TruncationMarker)
	require.Equal(t, strings.Repeat("é", 10), pre)
}

func TestRenderStepMatchesTranscriptFormat(t *testing.T) {
	step := memory.AgentStep{
		Action: memory.AgentAction{
			Tool:      "web_search",
			ToolInput: map[string]any{"query": "n8n"},
		},
		Observation: map[string]any{"results": "10 hits"},
	}
	require.Equal(t,
		`tool call: web_search({"query":"n8n"}) => {"results":"10 hits"}`,
		renderStep(step, DefaultMaxObservationLength))
}

func TestRenderStepTruncatesLongObservations(t *testing.T) {
	step := memory.AgentStep{
		Action:      memory.AgentAction{Tool: "reader", ToolInput: "doc"},
		Observation: strings.Repeat("a", 100),
	}
	out := renderStep(step, 10)
	require.Equal(t, "tool call: reader(doc) => "+strings.Repeat("a", 10)+TruncationMarker, out)
}

func TestRenderSummaryJoinsWithBlankLines(t *testing.T) {
	steps := []memory.AgentStep{
		{Action: memory.AgentAction{Tool: "a", ToolInput: "x"}, Observation: "1"},
		{Action: memory.AgentAction{Tool: "b", ToolInput: "y"}, Observation: "2"},
	}
	require.Equal(t,
		"tool call: a(x) => 1\n\ntool call: b(y) => 2",
		renderSummary(steps, DefaultMaxObservationLength))
}
