package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(gatewayCallLatencyMs, routerCallLatencyMs) }

var gatewayCallLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "payment_gateway_latency_ms",
		Help:    "Payment gateway call latency distribution in milliseconds.",
		Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 15000},
	},
	[]string{"operation", "success"},
)

var routerCallLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "router_call_latency_ms",
		Help:    "Access router call latency distribution in milliseconds.",
		Buckets: []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	},
	[]string{"operation", "success"},
)

func ObserveGatewayCall(operation string, latencyMs int64, success bool) {
	gatewayCallLatencyMs.WithLabelValues(norm(operation), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}

func ObserveRouterCall(operation string, latencyMs int64, success bool) {
	routerCallLatencyMs.WithLabelValues(norm(operation), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
