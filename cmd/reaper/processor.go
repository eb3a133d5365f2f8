package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/nutridry/storefront-backend/internal/awsapi"
	"github.com/nutridry/storefront-backend/internal/objectstore"
	"github.com/nutridry/storefront-backend/internal/orphan"
)

const deleteWaitTimeout = 10 * time.Second

// Processor retries deletes for objects whose compensating delete failed
// during a rolled-back commit. It runs under the reaper's role
// credentials, not the original operation's scoped credentials, which
// have long expired by the time a message is redelivered.
type Processor struct {
	s3          awsapi.S3API
	waitTimeout time.Duration
}

// NewProcessor creates a processor with AWS clients injected.
func NewProcessor(clients *awsapi.Clients) *Processor {
	return &Processor{
		s3:          clients.S3,
		waitTimeout: deleteWaitTimeout,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times,
			// the message goes to the DLQ.
			log.Printf("reaper error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg orphan.Message
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if msg.Bucket == "" || msg.Key == "" {
		return fmt.Errorf("orphan message missing bucket or key: %s", rec.Body)
	}

	log.Printf("[reaper] deleting orphan bucket=%s key=%s", msg.Bucket, msg.Key)

	if _, err := objectstore.DeleteWithClient(ctx, p.s3, msg.Bucket, msg.Key, p.waitTimeout); err != nil {
		return fmt.Errorf("delete orphan %q: %w", msg.Key, err)
	}

	log.Printf("[reaper] deleted orphan key=%s", msg.Key)
	return nil
}
