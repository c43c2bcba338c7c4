package events

import (
	"context"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// ErrUnsupportedEvent is returned when a payload type has no
// corresponding event constructor.
var ErrUnsupportedEvent = errors.New("unknown payload for event")

type Type int

// Base common denominator all event-bus events share.
type Base struct {
	ctx     context.Context
	traceID string
	seq     int
	et      Type
}

type Event interface {
	Type() Type
	Context() context.Context
	TraceID() string
}

const (
	// All event type -> used by subscribers to just receive all events,
	// has no actual corresponding event payload.
	All Type = iota
	// TradeEvent covers both buy and sell executions.
	TradeEvent
	// GraduatedEvent is emitted once per engine, when curve trading closes.
	GraduatedEvent
	// LiquidityAddedEvent is emitted when the migration call succeeds.
	LiquidityAddedEvent
	// LiquidityLockedEvent is emitted when the LP position is locked.
	LiquidityLockedEvent
	// LiquidityWithdrawnEvent is emitted when the creator withdraws the
	// unlocked LP position.
	LiquidityWithdrawnEvent
)

var eventStrings = map[Type]string{
	All:                     "ALL",
	TradeEvent:              "TradeEvent",
	GraduatedEvent:          "GraduatedEvent",
	LiquidityAddedEvent:     "LiquidityAddedEvent",
	LiquidityLockedEvent:    "LiquidityLockedEvent",
	LiquidityWithdrawnEvent: "LiquidityWithdrawnEvent",
}

type traceIDKey int

const traceIDK traceIDKey = 0

// WithTraceID stores the given trace ID on the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDK, traceID)
}

func traceIDFromContext(ctx context.Context) (context.Context, string) {
	if tID, ok := ctx.Value(traceIDK).(string); ok && tID != "" {
		return ctx, tID
	}
	tID := uuid.NewV4().String()
	return WithTraceID(ctx, tID), tID
}

// A base event holds no data, so the constructor will not be called directly.
func newBase(ctx context.Context, t Type) *Base {
	ctx, tID := traceIDFromContext(ctx)
	return &Base{
		ctx:     ctx,
		traceID: tID,
		et:      t,
	}
}

// TraceID returns the trace ID correlating all events from one operation.
func (b Base) TraceID() string {
	return b.traceID
}

// Sequence returns the event sequence number.
func (b Base) Sequence() int {
	return b.seq
}

// Context returns the event context.
func (b Base) Context() context.Context {
	return b.ctx
}

// Type returns the event type.
func (b Base) Type() Type {
	return b.et
}

// String gets the string representation of the event type.
func (t Type) String() string {
	s, ok := eventStrings[t]
	if !ok {
		return "UNKNOWN EVENT"
	}
	return s
}
