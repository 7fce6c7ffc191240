package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// pointsAwarded counts points credited to staff balances, by reason.
	// The reason label is the ledger reason kind, not free text, so label
	// cardinality stays bounded.
	pointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_points_awarded_total",
			Help: "Total points credited to staff balances.",
		},
		[]string{"reason"},
	)

	// pointsReversed counts points debited when an engagement action is
	// toggled back off.
	pointsReversed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_points_reversed_total",
			Help: "Total points debited by engagement toggle-offs.",
		},
		[]string{"reason"},
	)

	// engagementToggles counts status toggle operations by action and
	// direction ("on" or "off").
	engagementToggles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_engagement_toggles_total",
			Help: "Total engagement status toggle operations.",
		},
		[]string{"action", "direction"},
	)

	// entriesCreated counts created entries by kind ("post", "reply",
	// "recurring").
	entriesCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_entries_created_total",
			Help: "Total entries created.",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(pointsAwarded, pointsReversed, engagementToggles, entriesCreated)
}

const (
	reasonAction = "action"
	reasonPost   = "post"
	reasonReply  = "reply"
)
