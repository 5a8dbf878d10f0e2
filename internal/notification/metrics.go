package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notifications stored, by type",
	}, []string{"type"})

	notificationDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_deliveries_total",
		Help: "Out-of-band notification deliveries, by channel and result",
	}, []string{"channel", "result"})
)

func recordDelivery(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	notificationDeliveries.WithLabelValues(channel, result).Inc()
}
