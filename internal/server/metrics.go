package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// lotCollector exposes the current lot's occupancy on scrape. It reports
// nothing until a lot has been created.
type lotCollector struct {
	handler *Handler

	capacity  *prometheus.Desc
	occupied  *prometheus.Desc
	available *prometheus.Desc
}

func newLotCollector(h *Handler) *lotCollector {
	return &lotCollector{
		handler: h,
		capacity: prometheus.NewDesc("parking_lot_capacity",
			"Number of slots in the current parking lot.", nil, nil),
		occupied: prometheus.NewDesc("parking_lot_occupied_slots",
			"Number of occupied slots in the current parking lot.", nil, nil),
		available: prometheus.NewDesc("parking_lot_available_slots",
			"Number of vacant slots in the current parking lot.", nil, nil),
	}
}

func (c *lotCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.occupied
	ch <- c.available
}

func (c *lotCollector) Collect(ch chan<- prometheus.Metric) {
	parkingLot := c.handler.lot()
	if parkingLot == nil {
		return
	}

	capacity := parkingLot.Capacity()
	available := parkingLot.Available()

	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(capacity))
	ch <- prometheus.MustNewConstMetric(c.occupied, prometheus.GaugeValue, float64(capacity-available))
	ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(available))
}

func newRegistry(h *Handler) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		newLotCollector(h),
	)
	return registry
}
