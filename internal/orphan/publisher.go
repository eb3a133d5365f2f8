// Package orphan tracks uploaded objects whose compensating delete failed.
// The orchestrator publishes them to an SQS queue; cmd/reaper drains it.
package orphan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/nutridry/storefront-backend/internal/awsapi"
)

// Message identifies one orphaned object.
type Message struct {
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Reason   string `json:"reason,omitempty"`
	Attempts int    `json:"attempts,omitempty"`
}

// Publisher wraps an SQS client and a queue URL.
type Publisher struct {
	SQS      awsapi.SQSAPI
	QueueURL string
}

// NewPublisher returns a Publisher bound to a queue URL.
func NewPublisher(sqsClient awsapi.SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		SQS:      sqsClient,
		QueueURL: queueURL,
	}
}

// Publish sends msg to the orphan queue. Bucket and key are duplicated as
// message attributes so the queue can be inspected without parsing bodies.
func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal orphan message: %w", err)
	}

	bodyStr := string(body)
	input := &sqs.SendMessageInput{
		QueueUrl:    &p.QueueURL,
		MessageBody: &bodyStr,
		MessageAttributes: map[string]sqstypes.MessageAttributeValue{
			"bucket": {DataType: awsString("String"), StringValue: &msg.Bucket},
			"key":    {DataType: awsString("String"), StringValue: &msg.Key},
		},
	}

	if _, err := p.SQS.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// awsString helper
func awsString(s string) *string { return &s }
