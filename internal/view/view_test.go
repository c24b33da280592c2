package view

import (
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/n8n-timings/internal/analysis"
	"github.com/imishinist/n8n-timings/internal/models"
	timeutils "github.com/imishinist/n8n-timings/internal/time"
)

type recorder struct {
	payloads []Payload
}

func (r *recorder) Render(p Payload) error {
	r.payloads = append(r.payloads, p)
	return nil
}

func (r *recorder) views() []ID {
	var ids []ID
	for _, p := range r.payloads {
		ids = append(ids, p.View)
	}
	return ids
}

func sampleData() Data {
	start := timeutils.FromEpochMillis(1700000000000)
	a := &models.ExecutionAnalysis{ExecutionID: "42", WorkflowName: "Sync"}
	a.AddNodeStats(&models.NodeStats{
		NodeName: "HTTP Request", Count: 2, TotalSeconds: 0.35, AverageSeconds: 0.175,
		SuccessCount: 1, ErrorCount: 1, SuccessRatePct: 50,
		Attempts: []models.RunAttempt{
			models.NewTimedRunAttempt("HTTP Request", start, 0.25, models.StatusSuccess, 0),
		},
	})
	a.AddNodeStats(&models.NodeStats{NodeName: "Set", Count: 1, SuccessCount: 1, SuccessRatePct: 100})
	return Data{Analysis: a, Timeline: analysis.BuildTimeline(a, nil)}
}

func TestCyclicNavigation(t *testing.T) {
	rec := &recorder{}
	m := New(sampleData(), rec)
	n := len(m.Catalogue())
	require.Equal(t, 5, n)

	for i := 0; i < n; i++ {
		require.NoError(t, m.Advance())
	}
	assert.Equal(t, 0, m.Index())
	assert.Len(t, rec.payloads, n)

	require.NoError(t, m.Retreat())
	assert.Equal(t, n-1, m.Index())
	assert.Equal(t, Timeline, m.Current().ID)
}

func TestSelect(t *testing.T) {
	rec := &recorder{}
	m := New(sampleData(), rec)

	require.NoError(t, m.Select(Count))
	assert.Equal(t, 2, m.Index())

	err := m.Select("histogram")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidViewSelection))
	assert.Equal(t, 2, m.Index())
	assert.Equal(t, []ID{Count}, rec.views())
}

func TestPayloads(t *testing.T) {
	rec := &recorder{}
	m := New(sampleData(), rec)
	require.NoError(t, m.Start())
	require.NoError(t, m.Select(SuccessRate))
	require.NoError(t, m.Select(Timeline))
	require.Len(t, rec.payloads, 3)

	total := rec.payloads[0]
	assert.Equal(t, "Total Execution Time by Node (Summed) (Plot 1/5)", total.Title)
	assert.Equal(t, "Execution 42 | Sync | 2 nodes", total.Info)
	assert.Equal(t, "87ceeb", total.Color)
	assert.Equal(t, []Bar{{Label: "HTTP Request", Value: 0.35}, {Label: "Set", Value: 0}}, total.Bars)
	assert.False(t, total.Empty)

	rate := rec.payloads[1]
	assert.Equal(t, "%", rate.Unit)
	assert.Equal(t, []Bar{{Label: "HTTP Request", Value: 50}, {Label: "Set", Value: 100}}, rate.Bars)

	tl := rec.payloads[2]
	assert.Equal(t, KindTimeline, tl.Kind)
	require.NotNil(t, tl.Timeline)
	assert.Len(t, tl.Timeline.Rows, 1)
	assert.Nil(t, tl.Bars)
}

func TestPayloadEmptyAnalysis(t *testing.T) {
	rec := &recorder{}
	m := New(Data{Analysis: &models.ExecutionAnalysis{ExecutionID: "1"}}, rec)
	require.NoError(t, m.Start())
	require.NoError(t, m.Retreat())

	for _, p := range rec.payloads {
		assert.True(t, p.Empty)
		assert.Empty(t, p.Bars)
	}
}

func TestWithCatalogue(t *testing.T) {
	defs := DefaultCatalogue()[:2]
	m := New(Data{}, nil, WithCatalogue(defs))
	require.NoError(t, m.Advance())
	require.NoError(t, m.Advance())
	assert.Equal(t, 0, m.Index())

	m = New(Data{}, nil, WithCatalogue(nil))
	assert.Len(t, m.Catalogue(), 5)
}

func TestParseCommand(t *testing.T) {
	catalogue := DefaultCatalogue()
	tests := []struct {
		input string
		want  Command
	}{
		{"", Command{Action: ActionNone}},
		{"left", Command{Action: ActionRetreat}},
		{"P", Command{Action: ActionRetreat}},
		{"right", Command{Action: ActionAdvance}},
		{" next ", Command{Action: ActionAdvance}},
		{"escape", Command{Action: ActionQuit}},
		{"q", Command{Action: ActionQuit}},
		{"3", Command{Action: ActionSelect, View: Count}},
		{"9", Command{Action: ActionSelect, View: "9"}},
		{"timeline", Command{Action: ActionSelect, View: Timeline}},
		{"avg", Command{Action: ActionSelect, View: AverageTime}},
		{"succ", Command{Action: ActionSelect, View: SuccessRate}},
		{"zzz", Command{Action: ActionSelect, View: "zzz"}},
		{"exit", Command{Action: ActionSelect, View: "exit"}},
		{"bye", Command{Action: ActionSelect, View: "bye"}},
		{"one", Command{Action: ActionSelect, View: "one"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.input, catalogue))
		})
	}
}

func TestUnknownWordsAreRejected(t *testing.T) {
	m := New(sampleData(), nil)
	for _, word := range []string{"exit", "bye", "x", "one", "execution", "node"} {
		cmd := ParseCommand(word, m.Catalogue())
		require.Equal(t, ActionSelect, cmd.Action, word)

		_, err := m.Dispatch(cmd)
		assert.True(t, errors.Is(err, ErrInvalidViewSelection), word)
		assert.Equal(t, 0, m.Index(), word)
	}
}

func TestRun(t *testing.T) {
	rec := &recorder{}
	m := New(sampleData(), rec)

	input := strings.Join([]string{"next", "bogus-view-xyz", "5", "left", "q", "next"}, "\n")
	require.NoError(t, m.Run(strings.NewReader(input), nil))

	assert.Equal(t, []ID{TotalTime, AverageTime, Timeline, SuccessRate}, rec.views())
	assert.Equal(t, SuccessRate, m.Current().ID)
}

func TestRunStopsOnRenderError(t *testing.T) {
	calls := 0
	m := New(sampleData(), RendererFunc(func(Payload) error {
		calls++
		if calls == 2 {
			return errors.New("surface closed")
		}
		return nil
	}))

	err := m.Run(strings.NewReader("next\nnext\n"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface closed")
	assert.Equal(t, 2, calls)
}
