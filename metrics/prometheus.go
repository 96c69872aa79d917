package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"code.vegaprotocol.io/bigbook/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bigbook"

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected.
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	engineTime          *prometheus.CounterVec
	orderCounter        *prometheus.CounterVec
	rejectedCounter     *prometheus.CounterVec
	makersCounter       *prometheus.CounterVec
	makersPerSubmission *prometheus.HistogramVec
	restingOrdersGauge  *prometheus.GaugeVec

	setupOnce sync.Once
	setupErr  error
)

// abstract prometheus types.
type instrument int

// combine all possible prometheus options, every instrument is a vector.
type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	counterV   *prometheus.CounterVec
	histogramV *prometheus.HistogramVec
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace.
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configure and register new metrics instrument. Instruments
// are always vectors, an instrument without labels is a vector of one series.
func AddInstrument(t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		ret.gaugeV = prometheus.NewGaugeVec(prometheus.GaugeOpts(opt.opts), opt.vectors)
		col = ret.gaugeV
	case Counter:
		ret.counterV = prometheus.NewCounterVec(prometheus.CounterOpts(opt.opts), opt.vectors)
		col = ret.counterV
	case Histogram:
		o := prometheus.HistogramOpts{
			Name:      opt.opts.Name,
			Namespace: opt.opts.Namespace,
			Help:      opt.opts.Help,
			Buckets:   opt.buckets,
		}
		ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
		col = ret.histogramV
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := prometheus.Register(col); err != nil {
		return nil, err
	}
	return &ret, nil
}

// GaugeVec returns a prometheus GaugeVec instrument.
func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

// CounterVec returns a prometheus CounterVec instrument.
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

// Start enable metrics (given config) and serve them over HTTP.
func Start(log *logging.Logger, conf Config) error {
	if !conf.Enabled {
		return nil
	}
	if err := SetupInstruments(); err != nil {
		return errors.Wrap(err, "could not set up metrics")
	}
	mux := http.NewServeMux()
	mux.Handle(conf.Path, promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", logging.Error(err))
		}
	}()
	log.Info("metrics started",
		logging.Int("port", conf.Port),
		logging.String("path", conf.Path),
	)
	return nil
}

// SetupInstruments registers every instrument with the default registry.
// It is safe to call more than once.
func SetupInstruments() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics()
	})
	return setupErr
}

func setupMetrics() error {
	h, err := AddInstrument(
		Counter,
		"engine_seconds_total",
		Namespace(namespace),
		Vectors("market", "engine", "fn"),
		Help("Total time spent in each engine call"),
	)
	if err != nil {
		return err
	}
	if engineTime, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"orders_total",
		Namespace(namespace),
		Vectors("market", "side", "type"),
		Help("Number of orders accepted"),
	)
	if err != nil {
		return err
	}
	if orderCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"orders_rejected_total",
		Namespace(namespace),
		Vectors("market", "reason"),
		Help("Number of orders rejected by validation"),
	)
	if err != nil {
		return err
	}
	if rejectedCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Counter,
		"makers_total",
		Namespace(namespace),
		Vectors("market"),
		Help("Number of resting orders filled or partially filled"),
	)
	if err != nil {
		return err
	}
	if makersCounter, err = h.CounterVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Histogram,
		"makers_per_order",
		Namespace(namespace),
		Vectors("market"),
		Buckets([]float64{0, 1, 2, 5, 10, 25, 50, 100}),
		Help("Number of makers touched by a single incoming order"),
	)
	if err != nil {
		return err
	}
	if makersPerSubmission, err = h.HistogramVec(); err != nil {
		return err
	}

	h, err = AddInstrument(
		Gauge,
		"resting_orders",
		Namespace(namespace),
		Vectors("market", "side"),
		Help("Number of orders currently resting in the book"),
	)
	if err != nil {
		return err
	}
	if restingOrdersGauge, err = h.GaugeVec(); err != nil {
		return err
	}

	return nil
}

// OrderCounterInc increments the accepted order counter.
func OrderCounterInc(labelValues ...string) {
	if orderCounter == nil {
		return
	}
	orderCounter.WithLabelValues(labelValues...).Inc()
}

// OrderRejectedInc increments the rejected order counter.
func OrderRejectedInc(labelValues ...string) {
	if rejectedCounter == nil {
		return
	}
	rejectedCounter.WithLabelValues(labelValues...).Inc()
}

// MakersAdd records the makers touched by one submission.
func MakersAdd(n int, market string) {
	if makersCounter == nil || makersPerSubmission == nil {
		return
	}
	makersCounter.WithLabelValues(market).Add(float64(n))
	makersPerSubmission.WithLabelValues(market).Observe(float64(n))
}

// RestingOrdersGaugeSet sets the number of resting orders on one side.
func RestingOrdersGaugeSet(n uint64, labelValues ...string) {
	if restingOrdersGauge == nil {
		return
	}
	restingOrdersGauge.WithLabelValues(labelValues...).Set(float64(n))
}

// TimeCounter measures the time spent in an engine call.
type TimeCounter struct {
	labelValues []string
	started     time.Time
}

// NewTimeCounter starts a timer for the given market, engine and function.
func NewTimeCounter(labelValues ...string) *TimeCounter {
	return &TimeCounter{
		labelValues: labelValues,
		started:     time.Now(),
	}
}

// EngineTimeCounterAdd adds the time elapsed since the counter was created.
func (tc *TimeCounter) EngineTimeCounterAdd() {
	if engineTime == nil {
		return
	}
	engineTime.WithLabelValues(tc.labelValues...).Add(time.Since(tc.started).Seconds())
}
