package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Imports.WithLabelValues("merge", "ok").Inc()
	m.RecordsImported.WithLabelValues("tasks").Add(3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Imports.WithLabelValues("merge", "ok")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.RecordsImported.WithLabelValues("tasks")))

	count, err := testutil.GatherAndCount(reg, "studyhub_imports_total", "studyhub_records_imported_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestNewNop_Independent(t *testing.T) {
	a := NewNop()
	b := NewNop()
	a.Exports.WithLabelValues("file").Inc()
	assert.Equal(t, float64(0), testutil.ToFloat64(b.Exports.WithLabelValues("file")))
}
