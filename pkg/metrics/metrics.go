// Package metrics exposes the shop's prometheus collectors. The HTTP
// request metrics live in the webserver middleware; these are the
// business counters the services increment directly.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopd_sales_completed_total",
		Help: "Completed barcode sales.",
	})

	SalesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopd_sales_rejected_total",
		Help: "Sales rejected before any stock change.",
	}, []string{"reason"})

	RepairsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopd_repairs_opened_total",
		Help: "Repair tickets created.",
	})

	CustomersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopd_customers_registered_total",
		Help: "Customers registered explicitly at the desk.",
	})

	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopd_login_failures_total",
		Help: "Rejected operator login attempts.",
	})
)
