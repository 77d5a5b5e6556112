// Package uploader pushes translated records to CloudWatch.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/promcw/cloudwatch-importer/internal/model"
)

// PutMetricData rejects requests carrying more than 20 metric data items,
// so the chunk size must match that limit exactly.
const maxBatchSize = 20

type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

type Uploader struct {
	cwClient  CloudWatchAPI
	namespace string
	batchSize int
}

func New(client CloudWatchAPI, namespace string) *Uploader {
	return &Uploader{
		cwClient:  client,
		namespace: namespace,
		batchSize: maxBatchSize,
	}
}

// Upload pushes records in consecutive chunks, one PutMetricData call per
// chunk, sequentially and in order. The first failed chunk aborts the
// remaining ones.
func (u *Uploader) Upload(ctx context.Context, records []model.Record) error {
	for start := 0; start < len(records); start += u.batchSize {
		end := min(start+u.batchSize, len(records))
		chunk := records[start:end]

		data, err := convertRecords(chunk)
		if err != nil {
			return err
		}
		_, err = u.cwClient.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
			Namespace:  aws.String(u.namespace),
			MetricData: data,
		})
		if err != nil {
			return fmt.Errorf("failed to put metric data: %w", err)
		}
		slog.Debug("pushed metric chunk", "records", len(chunk))
	}
	return nil
}

func convertRecords(records []model.Record) ([]types.MetricDatum, error) {
	data := make([]types.MetricDatum, 0, len(records))
	for _, r := range records {
		if !r.Value.Numeric {
			return nil, fmt.Errorf("metric %q has non-numeric value %q", r.MetricName, r.Value.Raw)
		}
		dimensions := make([]types.Dimension, 0, len(r.Dimensions))
		for _, d := range r.Dimensions {
			dimensions = append(dimensions, types.Dimension{
				Name:  aws.String(d.Name),
				Value: aws.String(d.Value),
			})
		}
		data = append(data, types.MetricDatum{
			MetricName: aws.String(r.MetricName),
			Dimensions: dimensions,
			Timestamp:  aws.Time(secondsToTime(r.Timestamp)),
			Value:      aws.Float64(r.Value.Float),
			Unit:       types.StandardUnit(r.Unit),
		})
	}
	return data, nil
}

func secondsToTime(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
}
