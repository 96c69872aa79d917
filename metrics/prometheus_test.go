package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupInstrumentsTwice(t *testing.T) {
	require.NoError(t, SetupInstruments())
	require.NoError(t, SetupInstruments())
}

func TestRecordingHelpers(t *testing.T) {
	require.NoError(t, SetupInstruments())

	OrderCounterInc("m-counter", "ask", "limit")
	OrderCounterInc("m-counter", "ask", "limit")
	assert.Equal(t, 2.0, testutil.ToFloat64(orderCounter.WithLabelValues("m-counter", "ask", "limit")))

	OrderRejectedInc("m-counter", "ORDER_ERROR_INVALID_PRICE")
	assert.Equal(t, 1.0, testutil.ToFloat64(rejectedCounter.WithLabelValues("m-counter", "ORDER_ERROR_INVALID_PRICE")))

	MakersAdd(3, "m-counter")
	assert.Equal(t, 3.0, testutil.ToFloat64(makersCounter.WithLabelValues("m-counter")))

	RestingOrdersGaugeSet(7, "m-counter", "bid")
	assert.Equal(t, 7.0, testutil.ToFloat64(restingOrdersGauge.WithLabelValues("m-counter", "bid")))

	NewTimeCounter("m-counter", "matching", "SubmitOrder").EngineTimeCounterAdd()
	assert.GreaterOrEqual(t, testutil.ToFloat64(engineTime.WithLabelValues("m-counter", "matching", "SubmitOrder")), 0.0)
}

func TestAddInstrumentUnsupported(t *testing.T) {
	_, err := AddInstrument(instrument(42), "unsupported")
	assert.ErrorIs(t, err, ErrInstrumentNotSupported)
}

func TestInstrumentTypeMismatch(t *testing.T) {
	m := mi{}
	_, err := m.CounterVec()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
	_, err = m.GaugeVec()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
	_, err = m.HistogramVec()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
}

func TestAddInstrumentWithoutLabels(t *testing.T) {
	h, err := AddInstrument(Gauge, "unlabelled_gauge", Namespace(namespace))
	require.NoError(t, err)
	g, err := h.GaugeVec()
	require.NoError(t, err)
	g.WithLabelValues().Set(5)
	assert.Equal(t, 5.0, testutil.ToFloat64(g.WithLabelValues()))

	_, err = h.CounterVec()
	assert.ErrorIs(t, err, ErrInstrumentTypeMismatch)
}
