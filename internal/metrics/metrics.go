package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_requests_submitted_total",
		Help: "Approval requests submitted, by workflow code.",
	}, []string{"workflow_code"})

	DecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_decisions_total",
		Help: "Stage decisions processed, by workflow code and decision.",
	}, []string{"workflow_code", "decision"})

	FinalizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "approval_requests_finalized_total",
		Help: "Requests reaching a terminal status, by workflow code and status.",
	}, []string{"workflow_code", "status"})
)
