package observability

import (
	"testing"

	dto "github.com/prometheus/client_model/go"

	"github.com/octoreflex/sentrygate/internal/gate"
)

func counterValue(t *testing.T, m *Metrics, label string) float64 {
	t.Helper()
	metric := &dto.Metric{}
	c, err := m.OutcomesTotal.GetMetricWithLabelValues(label)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Write(metric); err != nil {
		t.Fatal(err)
	}
	return metric.GetCounter().GetValue()
}

func TestRecordIncrementsCorrectLabel(t *testing.T) {
	m := NewMetrics()
	m.Record(gate.Allow)
	m.Record(gate.Allow)
	m.Record(gate.Deny)
	m.Record(gate.ErrOOM)

	if v := counterValue(t, m, "allow"); v != 2 {
		t.Fatalf("allow = %v, want 2", v)
	}
	if v := counterValue(t, m, "deny"); v != 1 {
		t.Fatalf("deny = %v, want 1", v)
	}
	if v := counterValue(t, m, "err_oom"); v != 1 {
		t.Fatalf("err_oom = %v, want 1", v)
	}
	if v := counterValue(t, m, "quarantine"); v != 0 {
		t.Fatalf("quarantine = %v, want 0", v)
	}
}

func TestRefreshOccupancy(t *testing.T) {
	m := NewMetrics()
	m.RefreshOccupancy(3, 42)

	metric := &dto.Metric{}
	if err := m.OriginOccupancy.Write(metric); err != nil {
		t.Fatal(err)
	}
	if got := metric.GetGauge().GetValue(); got != 3 {
		t.Fatalf("origin occupancy = %v, want 3", got)
	}
}
