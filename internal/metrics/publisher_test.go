package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
)

type fakeCloudWatch struct {
	input *cloudwatch.PutMetricDataInput
	err   error
}

func (f *fakeCloudWatch) PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestCount(t *testing.T) {
	fake := &fakeCloudWatch{}
	p := NewPublisher(fake)

	p.Count(context.Background(), CommitRolledBack, 1)

	if *fake.input.Namespace != Namespace {
		t.Fatalf("namespace mismatch: %s", *fake.input.Namespace)
	}
	if *fake.input.MetricData[0].MetricName != CommitRolledBack {
		t.Fatalf("metric name mismatch: %s", *fake.input.MetricData[0].MetricName)
	}
	if *fake.input.MetricData[0].Value != 1 {
		t.Fatalf("value mismatch: %f", *fake.input.MetricData[0].Value)
	}
}

func TestCount_FailureIsSwallowed(t *testing.T) {
	fake := &fakeCloudWatch{err: errors.New("throttled")}
	p := NewPublisher(fake)

	// must not panic or propagate
	p.Count(context.Background(), ProductCommitted, 1)
}
