package metrics

import (
	"strconv"

	"github.com/d3ce1t/turtlelink/idgen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "turtlelink_links_created_total",
		Help: "The total number of short links created",
	})

	LinkCollisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "turtlelink_link_code_collisions_total",
		Help: "Generated codes rejected because they were already in use",
	}, []string{"code_length"})

	LinkResolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "turtlelink_link_resolves_total",
		Help: "Resolve requests by result",
	}, []string{"source", "status"})
)

// IDGenCollector exports the counters of an ID generator.
type IDGenCollector struct {
	gen            *idgen.IDGen
	issued         *prometheus.Desc
	sequenceWaits  *prometheus.Desc
	spinPolls      *prometheus.Desc
	clockBackwards *prometheus.Desc
}

func NewIDGenCollector(gen *idgen.IDGen) *IDGenCollector {

	labels := prometheus.Labels{
		"worker_id":     strconv.FormatInt(gen.WorkerID(), 10),
		"datacenter_id": strconv.FormatInt(gen.DatacenterID(), 10),
	}

	return &IDGenCollector{
		gen: gen,
		issued: prometheus.NewDesc("turtlelink_idgen_issued_total",
			"IDs returned by the generator", nil, labels),
		sequenceWaits: prometheus.NewDesc("turtlelink_idgen_sequence_waits_total",
			"Times the per-millisecond sequence was exhausted", nil, labels),
		spinPolls: prometheus.NewDesc("turtlelink_idgen_spin_polls_total",
			"Clock reads while waiting for the next millisecond", nil, labels),
		clockBackwards: prometheus.NewDesc("turtlelink_idgen_clock_backwards_total",
			"Calls rejected because the clock moved backwards", nil, labels),
	}
}

func (c *IDGenCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.issued
	ch <- c.sequenceWaits
	ch <- c.spinPolls
	ch <- c.clockBackwards
}

func (c *IDGenCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.gen.Stats()
	ch <- prometheus.MustNewConstMetric(c.issued, prometheus.CounterValue, float64(stats.Issued))
	ch <- prometheus.MustNewConstMetric(c.sequenceWaits, prometheus.CounterValue, float64(stats.SequenceWaits))
	ch <- prometheus.MustNewConstMetric(c.spinPolls, prometheus.CounterValue, float64(stats.SpinPolls))
	ch <- prometheus.MustNewConstMetric(c.clockBackwards, prometheus.CounterValue, float64(stats.ClockBackwards))
}
