package metrics

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "raffle_http_requests_total"
	MetricNameHTTPRequestDuration  = "raffle_http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "raffle_http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished = "raffle_events_published_total"
)

// Business metric names
const (
	MetricNameTicketPurchases = "raffle_ticket_purchases_total"
	MetricNameTicketsSold     = "raffle_tickets_sold_total"
	MetricNameTicketRevenue   = "raffle_ticket_revenue_total"
	MetricNameDrawsResolved   = "raffle_draws_resolved_total"
	MetricNamePrizesPaid      = "raffle_prizes_paid_total"
	MetricNameTicketsRefunded = "raffle_tickets_refunded_total"
	MetricNameNotifications   = "raffle_notifications_total"
)

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished = "Total number of committed events dispatched on the event bus"
)

// Business metric help text
const (
	HelpTextTicketPurchases = "Total number of committed ticket purchases"
	HelpTextTicketsSold     = "Total number of tickets issued"
	HelpTextTicketRevenue   = "Total amount debited for tickets"
	HelpTextDrawsResolved   = "Total number of resolved draws by outcome"
	HelpTextPrizesPaid      = "Total amount credited to winners"
	HelpTextTicketsRefunded = "Total number of tickets refunded by cancelled draws"
	HelpTextNotifications   = "Total number of notifications enqueued by type"
)

// Label names
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
