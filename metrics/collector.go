package metrics

import (
	"time"

	"github.com/hupe1980/hostbridge/bridge"
	"github.com/hupe1980/hostbridge/core"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hostbridge"

// Collector is a bridge.Observer exporting prometheus metrics.
type Collector struct {
	contextsCreated  *prometheus.CounterVec
	contextsDisposed *prometheus.CounterVec
	actionsEnqueued  *prometheus.CounterVec
	actionsInvoked   *prometheus.CounterVec
	actionDuration   *prometheus.HistogramVec
	inlineCalls      *prometheus.CounterVec
	cancellations    *prometheus.CounterVec
	stagesSkipped    *prometheus.CounterVec
	stageDuration    *prometheus.HistogramVec
	stagesInFlight   *prometheus.GaugeVec
}

var _ bridge.Observer = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics on reg. A nil
// reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		contextsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_created_total",
			Help:      "Total number of execution contexts created.",
		}, []string{"stage"}),
		contextsDisposed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contexts_disposed_total",
			Help:      "Total number of execution contexts disposed.",
		}, []string{"stage"}),
		actionsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_enqueued_total",
			Help:      "Total number of actions queued for the host goroutine.",
		}, []string{"stage"}),
		actionsInvoked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_invoked_total",
			Help:      "Total number of actions invoked on the host goroutine.",
		}, []string{"stage", "outcome"}),
		actionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "action_duration_seconds",
			Help:      "Time spent invoking actions on the host goroutine.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		inlineCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inline_calls_total",
			Help:      "Total number of calls run in place on the host goroutine.",
		}, []string{"stage"}),
		cancellations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Total number of execution contexts cancelled.",
		}, []string{"stage"}),
		stagesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stages_skipped_total",
			Help:      "Total number of stages skipped because the logic does not implement them.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Stage duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage", "outcome"}),
		stagesInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stages_in_flight",
			Help:      "Number of stages currently running.",
		}, []string{"stage"}),
	}
	for _, col := range []prometheus.Collector{
		c.contextsCreated, c.contextsDisposed, c.actionsEnqueued, c.actionsInvoked,
		c.actionDuration, c.inlineCalls, c.cancellations, c.stagesSkipped,
		c.stageDuration, c.stagesInFlight,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNewCollector is like NewCollector but panics on registration errors.
func MustNewCollector(reg prometheus.Registerer) *Collector {
	c, err := NewCollector(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Collector) ContextCreated(stage core.Stage) {
	c.contextsCreated.WithLabelValues(stage.String()).Inc()
}

func (c *Collector) ContextDisposed(stage core.Stage) {
	c.contextsDisposed.WithLabelValues(stage.String()).Inc()
}

func (c *Collector) ActionEnqueued(stage core.Stage) {
	c.actionsEnqueued.WithLabelValues(stage.String()).Inc()
}

func (c *Collector) ActionInvoked(stage core.Stage, outcome bridge.Outcome, d time.Duration) {
	c.actionsInvoked.WithLabelValues(stage.String(), outcome.String()).Inc()
	c.actionDuration.WithLabelValues(stage.String()).Observe(d.Seconds())
}

func (c *Collector) InlineCall(stage core.Stage) {
	c.inlineCalls.WithLabelValues(stage.String()).Inc()
}

func (c *Collector) CancellationRequested(stage core.Stage) {
	c.cancellations.WithLabelValues(stage.String()).Inc()
}

func (c *Collector) StageSkipped(stage core.Stage) {
	c.stagesSkipped.WithLabelValues(stage.String()).Inc()
}

// StageTransition tracks stages between Running and Done.
func (c *Collector) StageTransition(stage core.Stage, state bridge.StageState) {
	switch state {
	case bridge.StateRunning:
		c.stagesInFlight.WithLabelValues(stage.String()).Inc()
	case bridge.StateDone:
		c.stagesInFlight.WithLabelValues(stage.String()).Dec()
	}
}

func (c *Collector) StageCompleted(stage core.Stage, d time.Duration, err error) {
	c.stageDuration.WithLabelValues(stage.String(), stageOutcome(err)).Observe(d.Seconds())
}

func stageOutcome(err error) string {
	switch {
	case err == nil:
		return "succeeded"
	case core.IsHostHalted(err):
		return "halted"
	default:
		return "failed"
	}
}
