package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide counters, shared by every Engine. Per-engine figures are
// available from Engine.Stats.
var (
	memoLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cgt_memo_lookups_total",
		Help: "Memo table lookups by table and result",
	}, []string{"table", "result"})

	storeInternsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cgt_store_interns_total",
		Help: "Canonical store interns by outcome",
	}, []string{"outcome"})

	storeEvictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cgt_store_evictions_total",
		Help: "Registry entries dropped after their position was reclaimed",
	})
)
