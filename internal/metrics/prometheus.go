package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder with Prometheus collectors.
type PrometheusRecorder struct {
	reg             *prom.Registry
	starts          *prom.CounterVec
	stops           prom.Counter
	running         prom.Gauge
	entries         prom.Gauge
	entryDuration   prom.Histogram
	persistDuration *prom.HistogramVec
}

// NewPrometheusRecorder registers the tracker collectors on reg, or on a
// fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		starts: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ticktrack",
			Name:      "starts_total",
			Help:      "Start intents by result",
		}, []string{"result"}),
		stops: prom.NewCounter(prom.CounterOpts{
			Namespace: "ticktrack",
			Name:      "stops_total",
			Help:      "Stop intents that closed a running entry",
		}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: "ticktrack",
			Name:      "running",
			Help:      "1 while a task is running",
		}),
		entries: prom.NewGauge(prom.GaugeOpts{
			Namespace: "ticktrack",
			Name:      "entries",
			Help:      "Entries in the persisted sequence",
		}),
		entryDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "ticktrack",
			Name:      "entry_duration_seconds",
			Help:      "Length of closed entries",
			Buckets:   []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800},
		}),
		persistDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "ticktrack",
			Name:      "persist_duration_seconds",
			Help:      "Time spent rewriting the entry slot",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
	}
	reg.MustRegister(pr.starts, pr.stops, pr.running, pr.entries, pr.entryDuration, pr.persistDuration)
	return pr
}

// Registry returns the registry the collectors live on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (p *PrometheusRecorder) IncStart(result StartResult) {
	p.starts.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncStop() { p.stops.Inc() }

func (p *PrometheusRecorder) SetRunning(running bool) {
	if running {
		p.running.Set(1)
		return
	}
	p.running.Set(0)
}

func (p *PrometheusRecorder) SetEntries(n int) { p.entries.Set(float64(n)) }

func (p *PrometheusRecorder) ObserveEntryDuration(d time.Duration) {
	p.entryDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePersist(d time.Duration, err error) {
	res := "success"
	if err != nil {
		res = "failed"
	}
	p.persistDuration.WithLabelValues(res).Observe(d.Seconds())
}
