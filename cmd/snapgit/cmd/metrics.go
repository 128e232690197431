package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/oneconcern/snapgit/pkg/remote/instrumented"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

var (
	metricsRegistry = prometheus.NewRegistry()
	remoteMetrics   = instrumented.NewMetrics(metricsRegistry)
)

func metricLabels(m *dto.Metric) string {
	labels := make([]string, 0, len(m.GetLabel()))
	for _, pair := range m.GetLabel() {
		labels = append(labels, pair.GetName()+"="+pair.GetValue())
	}
	sort.Strings(labels)
	return strings.Join(labels, ",")
}

// printMetrics dumps the metrics collected about remote calls
func printMetrics(w io.Writer) {
	families, err := metricsRegistry.Gather()
	if err != nil {
		fmt.Fprintf(w, "could not collect metrics: %v\n", err)
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				fmt.Fprintf(w, "%s{%s} %v\n", family.GetName(), metricLabels(m), m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				fmt.Fprintf(w, "%s{%s} count=%d sum=%.3fs\n", family.GetName(), metricLabels(m), h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
}
