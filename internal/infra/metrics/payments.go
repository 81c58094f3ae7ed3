package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(paymentsTotal) }

var paymentsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payments_total",
		Help: "Payment confirmations, labeled by source (webhook/reconcile).",
	},
	[]string{"source"},
)

func IncPayment(source string) {
	paymentsTotal.WithLabelValues(norm(source)).Inc()
}
