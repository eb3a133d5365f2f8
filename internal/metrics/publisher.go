// Package metrics emits commit-outcome counters to CloudWatch. Publishing
// is best-effort: a metrics failure is logged and never fails an operation.
package metrics

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/nutridry/storefront-backend/internal/awsapi"
)

// Namespace groups every counter this backend emits.
const Namespace = "StorefrontAssets"

// Counter names.
const (
	CategoryCommitted = "CategoryCommitted"
	ProductCommitted  = "ProductCommitted"
	CommitRolledBack  = "CommitRolledBack"
	OrphanEnqueued    = "OrphanEnqueued"
)

// Publisher wraps a CloudWatch client.
type Publisher struct {
	CloudWatch awsapi.CloudWatchAPI
}

// NewPublisher returns a Publisher.
func NewPublisher(client awsapi.CloudWatchAPI) *Publisher {
	return &Publisher{CloudWatch: client}
}

// Count emits a single count datum under the shared namespace.
func (p *Publisher) Count(ctx context.Context, name string, n float64) {
	namespace := Namespace
	metricName := name
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &metricName,
				Unit:       cwtypes.StandardUnitCount,
				Value:      &n,
			},
		},
	}

	if _, err := p.CloudWatch.PutMetricData(ctx, input); err != nil {
		log.Printf("put metric %s: %v", name, err)
	}
}
