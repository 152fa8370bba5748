package worklet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageConstructorsStampTypeAndTime(t *testing.T) {
	before := time.Now().UnixNano()

	tests := []struct {
		name string
		msg  Message
		want MessageType
	}{
		{"init", NewInitMessage(48000, 128), MessageInit},
		{"param", NewParamMessage("macro1", 0.5, 0), MessageParam},
		{"state", NewStateMessage(3, []byte{1, 2}), MessageState},
		{"event", NewEventMessage(0, nil), MessageEvent},
		{"metrics", NewMetricsMessage(MetricsPayload{BlockCount: 7}), MessageMetrics},
		{"error", NewErrorMessage("process", "boom"), MessageError},
		{"bypass", NewBypassMessage(true), MessageBypass},
		{"debug", NewDebugMessage("hello"), MessageDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.Type)
			assert.Equal(t, tt.name, tt.msg.Type.String())
			assert.GreaterOrEqual(t, tt.msg.Timestamp, before)
		})
	}
}

func TestParamMessagePayload(t *testing.T) {
	m := NewParamMessage("cutoff", 0.75, 10)
	assert.Equal(t, "cutoff", m.Param.Name)
	assert.InDelta(t, 0.75, m.Param.Value, 1e-12)
	assert.InDelta(t, 10.0, m.Param.Rate, 1e-12)
}

func TestEventMessageKeepsOrder(t *testing.T) {
	events := []ScheduledEvent{
		{Tick: 0, Duration: 24, Payload: TriggerPayload{SampleID: "kick", Velocity: 1}},
		{Tick: 48, Duration: 24, Payload: TriggerPayload{SampleID: "snare", Velocity: 0.8}},
	}
	m := NewEventMessage(0, events)

	require.Len(t, m.Event.Events, 2)
	assert.Equal(t, "kick", m.Event.Events[0].Payload.SampleID)
	assert.Equal(t, int64(48), m.Event.Events[1].Tick)
}
