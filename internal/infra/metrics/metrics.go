package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	leadsRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_registered_total",
			Help: "Total number of leads registered",
		},
		[]string{"province"},
	)

	leadStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_status_changes_total",
			Help: "Total number of lead status updates by target status",
		},
		[]string{"status"},
	)

	commissionRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_commission_recorded_total",
			Help: "Commission written with status updates, in currency units",
		},
	)

	reportsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reports_built_total",
			Help: "Total number of report snapshots by result",
		},
		[]string{"result"},
	)

	unprocessedLeads = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "leads_unprocessed",
			Help: "Leads still in status New at the last check",
		},
	)
)

func RecordLeadRegistered(province string) {
	leadsRegistered.WithLabelValues(province).Inc()
}

func RecordStatusChange(status string, commission decimal.Decimal) {
	leadStatusChanges.WithLabelValues(status).Inc()
	if commission.IsPositive() {
		commissionRecorded.Add(commission.InexactFloat64())
	}
}

func RecordReport(err error) {
	if err != nil {
		reportsBuilt.WithLabelValues("error").Inc()
		return
	}
	reportsBuilt.WithLabelValues("ok").Inc()
}

func SetUnprocessedLeads(n int) {
	unprocessedLeads.Set(float64(n))
}
