package observability

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metric names emitted by the service
const (
	MetricSkippedRecords    = "SkippedRecords"
	MetricInferenceFailures = "InferenceFailures"
	MetricAuthRejections    = "AuthRejections"
	MetricEventsPublished   = "EventsPublished"
)

// MetricsAPI is the subset of the metrics client the recorder uses
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Recorder pushes counters to the metrics backend. Emission is best effort:
// a metrics outage must never fail the request being measured.
type Recorder struct {
	client    MetricsAPI
	namespace string
	logger    *zap.Logger
}

// NewRecorder creates a metrics recorder under one namespace
func NewRecorder(client MetricsAPI, namespace string, logger *zap.Logger) *Recorder {
	return &Recorder{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// Count adds to a counter metric, optionally dimensioned by entity kind
func (r *Recorder) Count(ctx context.Context, name string, value int, dimensions map[string]string) {
	if r == nil || r.client == nil || value == 0 {
		return
	}

	datum := types.MetricDatum{
		MetricName: aws.String(name),
		Value:      aws.Float64(float64(value)),
		Unit:       types.StandardUnitCount,
	}
	for k, v := range dimensions {
		datum.Dimensions = append(datum.Dimensions, types.Dimension{
			Name:  aws.String(k),
			Value: aws.String(v),
		})
	}

	if _, err := r.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(r.namespace),
		MetricData: []types.MetricDatum{datum},
	}); err != nil {
		r.logger.Warn("Failed to emit metric", zap.Error(err), zap.String("metric", name))
	}
}
