package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestBookingMetricsObserve(t *testing.T) {
	m := NewBookingMetrics(nil)
	m.ObserveCreated("standard")
	m.ObserveFailed("slot_unavailable")
	m.ObserveTransition("pending", "confirmed")
	m.ObserveCapacityExhausted()
	m.ObserveVoiceCommand("book", 0.75)
}

func TestBookingMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveCreated("express")
	m.ObserveCreated("express")
	m.ObserveVoiceCommand("", 0.1)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	created, ok := byName["laundry_bookings_created_total"]
	if !ok {
		t.Fatalf("created counter not registered; got %v", keys(byName))
	}
	if got := created.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("created counter = %v, want 2", got)
	}

	voice, ok := byName["laundry_voice_commands_total"]
	if !ok {
		t.Fatal("voice counter not registered")
	}
	labels := voice.GetMetric()[0].GetLabel()
	if len(labels) != 1 || labels[0].GetValue() != "none" {
		t.Fatalf("empty intent should be recorded as none, got %v", labels)
	}
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.ObserveCreated("standard")
	m.ObserveFailed("reason")
	m.ObserveTransition("pending", "cancelled")
	m.ObserveCapacityExhausted()
	m.ObserveVoiceCommand("book", 0.5)
}

func keys(m map[string]*dto.MetricFamily) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
