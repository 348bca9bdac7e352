package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	TicketPurchases = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTicketPurchases,
			Help: HelpTextTicketPurchases,
		},
	)

	TicketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTicketsSold,
			Help: HelpTextTicketsSold,
		},
	)

	TicketRevenue = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTicketRevenue,
			Help: HelpTextTicketRevenue,
		},
	)

	DrawsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDrawsResolved,
			Help: HelpTextDrawsResolved,
		},
		[]string{LabelStatus},
	)

	PrizesPaid = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePrizesPaid,
			Help: HelpTextPrizesPaid,
		},
	)

	TicketsRefunded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTicketsRefunded,
			Help: HelpTextTicketsRefunded,
		},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameNotifications,
			Help: HelpTextNotifications,
		},
		[]string{LabelType},
	)
)
