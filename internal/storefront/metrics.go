package storefront

import (
	"github.com/prometheus/client_golang/prometheus"

	"Storefront/internal/cart"
)

type Metrics struct {
	OrdersPlaced prometheus.Counter
	Revenue      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Orders placed through checkout",
		}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_order_revenue_total",
			Help: "Sum of placed order totals in whole currency units",
		}),
	}

	reg.MustRegister(m.OrdersPlaced, m.Revenue)
	return m
}

func (m *Metrics) observeOrder(o cart.Order) {
	if m == nil {
		return
	}
	m.OrdersPlaced.Inc()
	m.Revenue.Add(float64(o.Total))
}
