package awsapi

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentity"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// Clients bundles the ambient-credential service clients for convenience.
// Clients that must run under per-operation scoped credentials (S3 puts,
// DynamoDB writes) are built inside their gateways instead.
type Clients struct {
	CognitoIdentity CognitoIdentityAPI
	CognitoUser     CognitoUserAPI
	SQS             SQSAPI
	CloudWatch      CloudWatchAPI
	S3              S3API
}

// NewClients loads AWS config and returns concrete service clients that
// implement our interfaces.
func NewClients(ctx context.Context) (*Clients, error) {
	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	return &Clients{
		CognitoIdentity: cognitoidentity.NewFromConfig(cfg),
		CognitoUser:     cognitoidentityprovider.NewFromConfig(cfg),
		SQS:             sqs.NewFromConfig(cfg),
		CloudWatch:      cloudwatch.NewFromConfig(cfg),
		S3:              s3.NewFromConfig(cfg),
	}, nil
}
