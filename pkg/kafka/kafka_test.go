package kafka

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newTestLogger() *slog.Logger {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEvent(t *testing.T) *Event {
	t.Helper()
	e, err := NewEvent("email.requested", "42", "user", "auth-service",
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), map[string]string{"template": "welcome"})
	require.NoError(t, err)
	return e
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "moneymentor.notification.email_requested", Topic("notification", "email_requested"))
}

func TestNewEvent_Envelope(t *testing.T) {
	e := testEvent(t).WithCorrelationID("corr-1").WithMetadata("attempt", "1")

	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, 1, e.Version)
	assert.Equal(t, "auth-service", e.Source)
	assert.Equal(t, "corr-1", e.CorrelationID)
	assert.Equal(t, "1", e.Metadata["attempt"])

	raw, err := e.Encode()
	require.NoError(t, err)
	decoded, err := DecodeEvent(raw)
	require.NoError(t, err)

	var data map[string]string
	require.NoError(t, decoded.DecodeData(&data))
	assert.Equal(t, "welcome", data["template"])
	assert.True(t, e.Timestamp.Equal(decoded.Timestamp))
}

func TestNewEvent_UnserializablePayload(t *testing.T) {
	_, err := NewEvent("x", "1", "user", "svc", time.Now(), make(chan int))
	require.Error(t, err)
}

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "a", Value: []byte("1")}}
	c := NewHeaderCarrier(&headers)

	assert.Equal(t, "1", c.Get("a"))
	assert.Equal(t, "", c.Get("missing"))

	c.Set("a", "2")
	c.Set("b", "3")
	assert.Equal(t, "2", c.Get("a"))
	assert.ElementsMatch(t, []string{"a", "b"}, c.Keys())
	assert.Len(t, headers, 2)
}

func TestProducer_Publish(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	w := &fakeWriter{}
	p := NewProducerWithWriter(w, DefaultProducerConfig(nil), newTestLogger())

	e := testEvent(t).WithCorrelationID("corr-9")
	require.NoError(t, p.Publish(ctx, "moneymentor.notification.email_requested", e))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "42", string(msg.Key))

	carrier := NewHeaderCarrier(&msg.Headers)
	assert.Equal(t, "email.requested", carrier.Get("event_type"))
	assert.Equal(t, "corr-9", carrier.Get("correlation_id"))
	assert.Contains(t, carrier.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestProducer_BreakerOpensAfterFailures(t *testing.T) {
	w := &fakeWriter{err: errors.New("dial tcp: connection refused")}
	cfg := DefaultProducerConfig(nil)
	cfg.Breaker = BreakerConfig{
		Name: "test-breaker", MaxRequests: 1, Timeout: time.Minute,
		FailureRatio: 0.5, MinRequests: 2,
	}
	p := NewProducerWithWriter(w, cfg, newTestLogger())

	for i := 0; i < 2; i++ {
		err := p.Publish(context.Background(), "t", testEvent(t))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	err := p.Publish(context.Background(), "t", testEvent(t))
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestPingBrokers_NoneConfigured(t *testing.T) {
	err := PingBrokers(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no brokers")
}
