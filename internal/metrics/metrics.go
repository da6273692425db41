// Package metrics registers the Prometheus counters the app reports on,
// served from /metrics by the standard promhttp handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "noteboard",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "noteboard",
		Name:      "signups_total",
		Help:      "Signup attempts by outcome.",
	}, []string{"outcome"})

	notes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "noteboard",
		Name:      "notes_created_total",
		Help:      "Note creation attempts by outcome.",
	}, []string{"outcome"})

	comments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "noteboard",
		Name:      "comments_total",
		Help:      "Comment submissions by outcome; rejected covers moderation and validation.",
	}, []string{"outcome"})
)

func IncLogin(outcome string)   { logins.WithLabelValues(outcome).Inc() }
func IncSignup(outcome string)  { signups.WithLabelValues(outcome).Inc() }
func IncNote(outcome string)    { notes.WithLabelValues(outcome).Inc() }
func IncComment(outcome string) { comments.WithLabelValues(outcome).Inc() }
