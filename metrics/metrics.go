package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "joingate"

const (
	OutcomeApproved = "approved"
	OutcomeDeclined = "declined"
)

var (
	ChallengesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenges_issued_total",
		Help:      "Join challenges sent to a chat.",
	})

	ChallengesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "challenges_resolved_total",
		Help:      "Join challenges answered by the joiner, by outcome.",
	}, []string{"outcome"})

	PromptsReaped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prompts_reaped_total",
		Help:      "Unanswered prompt messages removed by the reaper.",
	})

	ReapFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reap_failures_total",
		Help:      "Prompt messages the reaper failed to delete.",
	})
)
