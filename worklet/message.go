package worklet

import (
	"time"
)

// MessageType tags the payload carried by a Message.
type MessageType uint8

const (
	// MessageInit carries sample rate and block size to the audio context.
	MessageInit MessageType = iota

	// MessageParam carries a single named parameter change.
	MessageParam

	// MessageState carries an opaque state snapshot with a version number.
	MessageState

	// MessageEvent carries a batch of scheduled events with a start time.
	MessageEvent

	// MessageMetrics carries processing statistics from the audio context.
	MessageMetrics

	// MessageError reports a processing failure caught by the error boundary.
	MessageError

	// MessageBypass toggles pass-through processing.
	MessageBypass

	// MessageDebug carries a free-form diagnostic string.
	MessageDebug
)

// String returns the wire name of the message type.
func (t MessageType) String() string {
	switch t {
	case MessageInit:
		return "init"
	case MessageParam:
		return "param"
	case MessageState:
		return "state"
	case MessageEvent:
		return "event"
	case MessageMetrics:
		return "metrics"
	case MessageError:
		return "error"
	case MessageBypass:
		return "bypass"
	case MessageDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// InitPayload configures the audio context at startup.
type InitPayload struct {
	SampleRate float64
	BlockSize  int
}

// ParamPayload is a single parameter change. Rate is the smoothing rate in
// units per second; zero means apply immediately.
type ParamPayload struct {
	Name  string
	Value float64
	Rate  float64
}

// StatePayload is an opaque state snapshot. Consumers match Version against
// their own to discard stale snapshots.
type StatePayload struct {
	Version uint64
	Blob    []byte
}

// ScheduledEvent is one entry of an event message. Tick and Duration are in
// ticks of the owning event stream; Payload identifies the sample or slice
// to trigger.
type ScheduledEvent struct {
	Tick     int64
	Duration int64
	Payload  TriggerPayload
}

// TriggerPayload identifies what a scheduled event plays and how.
type TriggerPayload struct {
	SampleID     string
	SliceID      string
	Velocity     float64
	PitchOffset  float64 // semitones
	StretchRatio float64 // 0 means no stretch
}

// EventPayload is an ordered batch of events. Events must be sorted by
// non-decreasing Tick; the audio context processes them in order.
type EventPayload struct {
	StartTick int64
	Events    []ScheduledEvent
}

// MetricsPayload reports audio-context processing statistics.
type MetricsPayload struct {
	AverageBlockTime time.Duration
	MaxBlockTime     time.Duration
	BlockCount       uint64
	ActiveVoices     int
}

// ErrorPayload describes a failure caught inside the audio context.
type ErrorPayload struct {
	Op      string
	Message string
}

// Message is a typed, timestamped envelope exchanged between the control and
// audio contexts. Only the field matching Type is meaningful. Messages are
// immutable once constructed.
type Message struct {
	Type      MessageType
	Timestamp int64 // nanoseconds since the Unix epoch

	Init    InitPayload
	Param   ParamPayload
	State   StatePayload
	Event   EventPayload
	Metrics MetricsPayload
	Error   ErrorPayload
	Bypass  bool
	Debug   string
}

func stamp(t MessageType) Message {
	return Message{Type: t, Timestamp: time.Now().UnixNano()}
}

// NewInitMessage constructs an init message.
func NewInitMessage(sampleRate float64, blockSize int) Message {
	m := stamp(MessageInit)
	m.Init = InitPayload{SampleRate: sampleRate, BlockSize: blockSize}
	return m
}

// NewParamMessage constructs a parameter change message.
func NewParamMessage(name string, value, rate float64) Message {
	m := stamp(MessageParam)
	m.Param = ParamPayload{Name: name, Value: value, Rate: rate}
	return m
}

// NewStateMessage constructs a state snapshot message.
func NewStateMessage(version uint64, blob []byte) Message {
	m := stamp(MessageState)
	m.State = StatePayload{Version: version, Blob: blob}
	return m
}

// NewEventMessage constructs an event batch message. The caller must supply
// events sorted by non-decreasing Tick.
func NewEventMessage(startTick int64, events []ScheduledEvent) Message {
	m := stamp(MessageEvent)
	m.Event = EventPayload{StartTick: startTick, Events: events}
	return m
}

// NewMetricsMessage constructs a metrics report message.
func NewMetricsMessage(metrics MetricsPayload) Message {
	m := stamp(MessageMetrics)
	m.Metrics = metrics
	return m
}

// NewErrorMessage constructs an error report message.
func NewErrorMessage(op, message string) Message {
	m := stamp(MessageError)
	m.Error = ErrorPayload{Op: op, Message: message}
	return m
}

// NewBypassMessage constructs a bypass toggle message.
func NewBypassMessage(bypass bool) Message {
	m := stamp(MessageBypass)
	m.Bypass = bypass
	return m
}

// NewDebugMessage constructs a debug message.
func NewDebugMessage(text string) Message {
	m := stamp(MessageDebug)
	m.Debug = text
	return m
}
