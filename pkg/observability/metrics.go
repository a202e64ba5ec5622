// Package observability bridges engine and trainer lifecycle events into
// Prometheus metrics.
package observability

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors fed by lifecycle hooks.
type Metrics struct {
	rounds        *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
	toolDuration  *prometheus.HistogramVec
	episodeReward *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with the registerer.
// Pass prometheus.DefaultRegisterer for the process-global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_rounds_total",
				Help: "Total backend rounds, by model and outcome",
			},
			[]string{"model", "outcome"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_tool_calls_total",
				Help: "Total tool executions, by tool and status",
			},
			[]string{"tool_name", "status"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "arbor_tool_duration_seconds",
				Help: "Duration of tool executions",
			},
			[]string{"tool_name"},
		),
		episodeReward: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arbor_episode_avg_reward",
				Help: "Average reward of the most recent training episode",
			},
			[]string{"agent_id"},
		),
	}
	reg.MustRegister(m.rounds, m.toolCalls, m.toolDuration, m.episodeReward)
	return m
}

// Hooks returns lifecycle hooks that record into the collectors. Combine
// with other hooks if logging is also wanted.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRoundEnd: func(_ context.Context, e *domain.RoundEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.rounds.WithLabelValues(e.Model, outcome).Inc()
		},
		OnToolReturn: func(_ context.Context, e *domain.ToolEvent) {
			status := "ok"
			if e.IsError {
				status = "error"
			}
			m.toolCalls.WithLabelValues(e.ToolName, status).Inc()
			m.toolDuration.WithLabelValues(e.ToolName).Observe(e.DurationSecs)
		},
		OnEpisodeEnd: func(_ context.Context, e *domain.EpisodeEvent) {
			agentID := e.AgentID
			if agentID == "" {
				agentID = "default"
			}
			m.episodeReward.WithLabelValues(agentID).Set(e.AvgReward)
		},
	}
}
