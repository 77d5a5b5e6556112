// Package translator maps source query results into destination upload
// records.
package translator

import (
	"sort"

	"github.com/promcw/cloudwatch-importer/internal/model"
)

const (
	// metricNameLabel is the reserved label carrying the metric name. It
	// never becomes a dimension.
	metricNameLabel = "__name__"

	recordUnit = "Count"
)

// Translate maps every sample of every query result, in source order, into
// a destination record. Dimensions are ordered lexicographically by name so
// the output is reproducible byte for byte.
func Translate(results []model.QueryResult) []model.Record {
	records := make([]model.Record, 0, len(results))
	for _, result := range results {
		for _, sample := range result.Samples {
			records = append(records, translateSample(sample))
		}
	}
	return records
}

func translateSample(sample model.Sample) model.Record {
	dimensions := make(model.Dimensions, 0, len(sample.Labels))
	for name, value := range sample.Labels {
		if name == metricNameLabel {
			continue
		}
		dimensions = append(dimensions, model.Dimension{Name: name, Value: value})
	}
	sort.Slice(dimensions, func(i, j int) bool {
		return dimensions[i].Name < dimensions[j].Name
	})

	return model.Record{
		MetricName: sample.Labels[metricNameLabel],
		Dimensions: dimensions,
		Timestamp:  sample.Value.Timestamp,
		Value:      model.ParseValue(sample.Value.Value),
		Unit:       recordUnit,
	}
}
