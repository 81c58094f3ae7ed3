package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(invoicesGeneratedTotal, invoiceRetriesTotal) }

var invoicesGeneratedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "invoices_generated_total",
		Help: "Invoices generated, labeled by gateway call status.",
	},
	[]string{"gateway_status"}, // 'ok', 'failed'
)

var invoiceRetriesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "invoice_retries_total",
		Help: "Payment-link retry attempts, labeled by result.",
	},
	[]string{"result"}, // 'recovered', 'failed', 'exhausted'
)

func IncInvoiceGenerated(gatewayStatus string) {
	invoicesGeneratedTotal.WithLabelValues(norm(gatewayStatus)).Inc()
}

func IncInvoiceRetry(result string) {
	invoiceRetriesTotal.WithLabelValues(norm(result)).Inc()
}
