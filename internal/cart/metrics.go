package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal counts state-changing transitions by command.
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_transitions_total",
			Help: "Cart transitions that changed state, by command",
		},
		[]string{"command"},
	)

	// RestoreFailuresTotal counts stored carts discarded on open.
	RestoreFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cart_restore_failures_total",
			Help: "Stored carts discarded because they could not be restored",
		},
	)

	// WriteFailuresTotal counts cart writes the storage backend rejected.
	WriteFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_cart_write_failures_total",
			Help: "Cart persistence writes that failed",
		},
	)
)
