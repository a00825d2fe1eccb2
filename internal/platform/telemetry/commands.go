package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/ewbot"

// Command outcomes recorded as the "outcome" label.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
	OutcomeMaintenance = "maintenance"
	OutcomeUnknown     = "unknown_command"
)

// Tracer returns the tracer used for interaction spans.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// CommandMetrics records slash-command and gateway activity for the /-/metrics endpoint.
type CommandMetrics struct {
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gateway  *prometheus.CounterVec
}

// NewCommandMetrics creates the collectors and registers them with reg.
// Collectors already registered by an earlier call are reused.
func NewCommandMetrics(reg prometheus.Registerer) (*CommandMetrics, error) {
	m := &CommandMetrics{
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ewbot",
			Name:      "commands_total",
			Help:      "Slash commands handled, by command and outcome.",
		}, []string{"command", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ewbot",
			Name:      "command_duration_seconds",
			Help:      "Time from interaction receipt to reply.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		gateway: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ewbot",
			Name:      "gateway_events_total",
			Help:      "Discord gateway lifecycle events.",
		}, []string{"event"}),
	}

	var err error

	m.commands, err = register(reg, m.commands)
	if err != nil {
		return nil, err
	}

	m.duration, err = register(reg, m.duration)
	if err != nil {
		return nil, err
	}

	m.gateway, err = register(reg, m.gateway)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}

		return c, err
	}

	return c, nil
}

// ObserveCommand records one handled interaction.
func (m *CommandMetrics) ObserveCommand(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.commands.WithLabelValues(command, outcome).Inc()
	m.duration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// GatewayEvent records a gateway lifecycle event such as "ready" or "disconnect".
func (m *CommandMetrics) GatewayEvent(event string) {
	if m == nil {
		return
	}

	m.gateway.WithLabelValues(event).Inc()
}
