package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "numdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numdesk_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"role", "outcome"},
	)

	RegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "numdesk_registrations_total",
			Help: "Total number of reseller registrations",
		},
	)

	WalletTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numdesk_wallet_transactions_total",
			Help: "Total number of wallet ledger operations",
		},
		[]string{"type"},
	)

	WalletTransactionAmount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numdesk_wallet_transaction_amount_total",
			Help: "Cumulative amount moved through the wallet ledger",
		},
		[]string{"type"},
	)

	ValidityResetsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numdesk_validity_resets_total",
			Help: "Total number of reseller validity resets",
		},
		[]string{"action"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "numdesk_emails_sent_total",
			Help: "Total number of emails processed",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "numdesk_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordLogin(role, outcome string) {
	LoginsTotal.WithLabelValues(role, outcome).Inc()
}

func RecordRegistration() {
	RegistrationsTotal.Inc()
}

func RecordWalletTransaction(txType string, amount float64) {
	WalletTransactionsTotal.WithLabelValues(txType).Inc()
	WalletTransactionAmount.WithLabelValues(txType).Add(amount)
}

func RecordValidityReset(action string) {
	ValidityResetsTotal.WithLabelValues(action).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
