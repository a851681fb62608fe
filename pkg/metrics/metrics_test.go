package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Analyses.WithLabelValues("farmer").Inc()
	m.SessionRecomputes.Add(2)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Analyses.WithLabelValues("farmer")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.SessionRecomputes))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestNewForTestingDoesNotPanicTwice(t *testing.T) {
	require.NotPanics(t, func() {
		NewForTesting()
		NewForTesting()
	})
}
