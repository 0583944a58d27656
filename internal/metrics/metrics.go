// Package metrics exposes task statistics as Prometheus gauges.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matrix-planner/internal/model"
	"matrix-planner/internal/stats"
)

const namespace = "matrix_planner"

// Collector keeps gauges in sync with the task list.
type Collector struct {
	registry *prometheus.Registry
	now      func() time.Time

	open           *prometheus.GaugeVec
	completionRate prometheus.Gauge
	q2Ratio        prometheus.Gauge
	urgentDep      prometheus.Gauge
	weekly         prometheus.Gauge
	updates        prometheus.Counter
}

func NewCollector(now func() time.Time) *Collector {
	if now == nil {
		now = time.Now
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		now:      now,
		open: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "open",
			Help:      "Open tasks by quadrant",
		}, []string{"quadrant"}),
		completionRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "completion_rate_percent",
			Help:      "Completed share of all tasks",
		}),
		q2Ratio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "q2_ratio_percent",
			Help:      "Important but not urgent share of today's tasks",
		}),
		urgentDep: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "urgent_dependency_percent",
			Help:      "Urgent share of open tasks",
		}),
		weekly: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "completed_last_7d",
			Help:      "Tasks completed within the trailing seven days",
		}),
		updates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "list_updates_total",
			Help:      "Number of task list changes observed",
		}),
	}
	c.registry.MustRegister(c.open, c.completionRate, c.q2Ratio, c.urgentDep, c.weekly, c.updates)
	return c
}

// Registry returns the private registry the gauges live in.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe recomputes every gauge from tasks. It matches the TaskStore listener signature.
func (c *Collector) Observe(tasks []model.Task) {
	for q, n := range stats.QuadrantCounts(tasks) {
		c.open.WithLabelValues(string(q)).Set(float64(n))
	}
	c.completionRate.Set(float64(stats.CompletionRate(tasks)))
	c.q2Ratio.Set(float64(stats.Q2Ratio(tasks)))
	c.urgentDep.Set(float64(stats.UrgentDependency(tasks)))
	c.weekly.Set(float64(stats.WeeklyProgress(tasks, c.now())))
	c.updates.Inc()
}

// RefreshWindow recomputes the trailing seven day gauge, which ages without task changes.
func (c *Collector) RefreshWindow(tasks []model.Task) {
	c.weekly.Set(float64(stats.WeeklyProgress(tasks, c.now())))
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (c *Collector) Serve(ctx context.Context, addr string, log *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics shutdown", zap.Error(err))
		}
	}()

	log.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
