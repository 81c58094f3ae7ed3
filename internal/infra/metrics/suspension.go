package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(suspensionsTotal, routerSyncPendingGauge) }

var suspensionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "suspensions_total",
		Help: "Suspension attempts, labeled by result.",
	},
	[]string{"result"}, // 'suspended', 'sync_pending', 'failed'
)

var routerSyncPendingGauge = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "router_sync_pending",
		Help: "Technical records awaiting router re-sync.",
	},
)

func IncSuspension(result string) {
	suspensionsTotal.WithLabelValues(norm(result)).Inc()
}

func SetRouterSyncPending(n int) {
	routerSyncPendingGauge.Set(float64(n))
}
