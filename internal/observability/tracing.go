package observability

import (
	"context"
	"encoding/hex"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Span times one operation of a request. Spans are never exported: End
// writes them to the request logger at debug level.
type Span struct {
	TraceID   string
	SpanID    string
	ParentID  string
	Operation string
	Start     time.Time
	Duration  time.Duration
	Tags      map[string]string
	Err       string
}

type spanContextKey struct{}

// StartSpan opens a span under the span already in ctx, if any, and returns
// a context carrying the new one.
func StartSpan(ctx context.Context, operation string) (context.Context, *Span) {
	span := &Span{
		SpanID:    newID(),
		Operation: operation,
		Start:     time.Now(),
	}

	if parent := GetSpan(ctx); parent != nil {
		span.TraceID = parent.TraceID
		span.ParentID = parent.SpanID
	} else {
		span.TraceID = newID()
	}

	return context.WithValue(ctx, spanContextKey{}, span), span
}

func GetSpan(ctx context.Context) *Span {
	span, _ := ctx.Value(spanContextKey{}).(*Span)
	return span
}

func (s *Span) SetTag(key, value string) {
	if s.Tags == nil {
		s.Tags = make(map[string]string)
	}
	s.Tags[key] = value
}

func (s *Span) SetError(err error) {
	if err == nil {
		s.Err = "unknown error"
		return
	}
	s.Err = err.Error()
}

func (s *Span) Failed() bool {
	return s.Err != ""
}

// Finish records and returns the time since Start.
func (s *Span) Finish() time.Duration {
	s.Duration = time.Since(s.Start)
	return s.Duration
}

// End finishes the span and logs it.
func (s *Span) End(ctx context.Context, logger *slog.Logger) {
	s.Finish()
	logger.DebugContext(ctx, "span finished", "span", s)
}

func (s *Span) LogValue() slog.Value {
	status := "OK"
	if s.Failed() {
		status = "ERROR"
	}

	attrs := []slog.Attr{
		slog.String("trace_id", s.TraceID),
		slog.String("span_id", s.SpanID),
		slog.String("operation", s.Operation),
		slog.String("status", status),
		slog.Duration("duration", s.Duration),
	}
	if s.ParentID != "" {
		attrs = append(attrs, slog.String("parent_id", s.ParentID))
	}
	if s.Failed() {
		attrs = append(attrs, slog.String("error", s.Err))
	}
	for _, k := range slices.Sorted(maps.Keys(s.Tags)) {
		attrs = append(attrs, slog.String("tag."+k, s.Tags[k]))
	}
	return slog.GroupValue(attrs...)
}

func newID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:8])
}
