package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat holds the realtime core's instruments. All counters are cheap to
// bump from the broadcast hot path.
type Chat struct {
	registry *prometheus.Registry

	SessionsConnected prometheus.Gauge
	RoomSubscriptions prometheus.Gauge
	MessagesSent      prometheus.Counter
	MessagesDeleted   prometheus.Counter
	BroadcastsDropped prometheus.Counter
	AuditWriteErrors  prometheus.Counter
}

func NewChat() *Chat {
	registry := prometheus.NewRegistry()

	m := &Chat{
		registry: registry,
		SessionsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chat",
			Name:      "sessions_connected",
			Help:      "Currently connected websocket sessions.",
		}),
		RoomSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chat",
			Name:      "room_subscriptions",
			Help:      "Current (session, room) subscription pairs.",
		}),
		MessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "messages_sent_total",
			Help:      "Messages persisted and broadcast.",
		}),
		MessagesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "messages_deleted_total",
			Help:      "Messages removed by moderation or self-service delete.",
		}),
		BroadcastsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "broadcasts_dropped_total",
			Help:      "Per-session deliveries dropped because the outbound buffer was full.",
		}),
		AuditWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chat",
			Name:      "audit_write_errors_total",
			Help:      "Audit records that failed to persist (logged, never blocking).",
		}),
	}

	registry.MustRegister(
		m.SessionsConnected,
		m.RoomSubscriptions,
		m.MessagesSent,
		m.MessagesDeleted,
		m.BroadcastsDropped,
		m.AuditWriteErrors,
	)

	return m
}

func (m *Chat) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
