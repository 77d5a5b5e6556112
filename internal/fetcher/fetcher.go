// Package fetcher reads configured metrics from the source query API.
package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/promcw/cloudwatch-importer/internal/model"
)

// queryResponse is the envelope returned by the instant query endpoint.
type queryResponse struct {
	Status string `json:"status"`
	Data   struct {
		ResultType string         `json:"resultType"`
		Result     []model.Sample `json:"result"`
	} `json:"data"`
}

// Client is the subset of the REST client the fetcher needs.
type Client interface {
	Get(ctx context.Context, api string, params url.Values, out interface{}) error
}

// Fetch queries every metric name in order, one request each. Metrics the
// source answers with an empty result set are skipped with a warning: the
// query API reports unknown metric names as a well-formed empty success,
// not as an error. Any transport failure aborts the run immediately.
func Fetch(ctx context.Context, client Client, metrics []string) ([]model.QueryResult, error) {
	slog.Info("start fetching metrics", "metrics", len(metrics))
	results := make([]model.QueryResult, 0, len(metrics))
	for _, metric := range metrics {
		params := url.Values{}
		params.Set("query", metric)

		var resp queryResponse
		if err := client.Get(ctx, "query", params, &resp); err != nil {
			return nil, fmt.Errorf("failed to query metric %q: %w", metric, err)
		}
		if len(resp.Data.Result) == 0 {
			slog.Warn("metric not found", "metric", metric)
			continue
		}
		results = append(results, model.QueryResult{
			Query:   metric,
			Samples: resp.Data.Result,
		})
	}
	slog.Info("fetched metrics", "fetched", len(results), "requested", len(metrics))
	return results, nil
}
