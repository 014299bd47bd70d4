package metric

import (
	"sort"
	"strings"

	dto "github.com/prometheus/client_model/go"
)

// Sample is one flattened series.
type Sample struct {
	Name   string  `json:"name" yaml:"name"`
	Labels string  `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64 `json:"value" yaml:"value"`
}

// Snapshot gathers every series with a "solbox_" prefix, plus the go_ and
// process_ series once WithProcessMetrics was called. Histograms are
// reported as their _count and _sum.
func (r *Registry) Snapshot() ([]Sample, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		name := mf.GetName()
		if !r.reported(name) {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, Sample{name, labels, m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				out = append(out, Sample{name, labels, m.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				out = append(out,
					Sample{name + "_count", labels, float64(h.GetSampleCount())},
					Sample{name + "_sum", labels, h.GetSampleSum()},
				)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}

func (r *Registry) reported(name string) bool {
	if strings.HasPrefix(name, namespace+"_") {
		return true
	}
	return r.process && (strings.HasPrefix(name, "go_") || strings.HasPrefix(name, "process_"))
}

func formatLabels(pairs []*dto.LabelPair) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, p.GetName()+"="+p.GetValue())
	}
	return strings.Join(parts, ",")
}
