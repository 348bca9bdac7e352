package metrics

import (
	"context"

	"raffle/events"
	"raffle/models"

	log "github.com/sirupsen/logrus"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events
func (e *EventMetricsCollector) Register(bus *events.Bus) {
	for _, eventType := range events.AllEventTypes() {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent updates metrics for a committed event
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt events.Event) {
	EventsPublished.WithLabelValues(string(evt.Type())).Inc()

	switch ev := evt.(type) {
	case events.TicketsPurchasedEvent:
		TicketPurchases.Inc()
		TicketsSold.Add(float64(ev.Quantity))
		TicketRevenue.Add(ev.TotalCost.InexactFloat64())

	case events.DrawResolvedEvent:
		DrawsResolved.WithLabelValues(string(ev.Status)).Inc()
		if ev.Status == models.DrawStatusCompleted {
			PrizesPaid.Add(ev.PrizeAmount.InexactFloat64())
		} else {
			TicketsRefunded.Add(float64(ev.RefundedTickets))
		}

	case events.NotificationEnqueuedEvent:
		Notifications.WithLabelValues(string(ev.NotificationType)).Inc()
	}

	log.WithField("eventType", evt.Type()).Debug("Recorded event metrics")
}
