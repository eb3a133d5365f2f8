// Package recordstore writes catalog records into DynamoDB under
// per-operation scoped credentials.
package recordstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/nutridry/storefront-backend/internal/awsapi"
	"github.com/nutridry/storefront-backend/internal/credentials"
)

// ErrWrite is matched by every record-write failure. A write failure is
// always fatal to the enclosing commit attempt and never retried here.
var ErrWrite = errors.New("record write failed")

// WriteError wraps a provider failure with the table it targeted.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("put record into %q: %v", e.Table, e.Err)
}

func (e *WriteError) Is(target error) bool { return target == ErrWrite }

func (e *WriteError) Unwrap() error { return e.Err }

// Gateway writes records. Clients are built per call from scoped
// credentials; newClient is the test seam.
type Gateway struct {
	region    string
	newClient func(credentials.ScopedCredentials) awsapi.DynamoDBAPI
}

// New returns a Gateway for tables in region.
func New(region string) *Gateway {
	return &Gateway{
		region: region,
		newClient: func(creds credentials.ScopedCredentials) awsapi.DynamoDBAPI {
			return dyn.New(dyn.Options{
				Region:      region,
				Credentials: creds.Provider(),
			})
		},
	}
}

// Put marshals record with attributevalue and writes it to table as an
// unconditional overwrite-insert.
func (g *Gateway) Put(ctx context.Context, creds credentials.ScopedCredentials, table string, record any) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = g.newClient(creds).PutItem(ctx, &dyn.PutItemInput{
		TableName: &table,
		Item:      item,
	})
	if err != nil {
		return &WriteError{Table: table, Err: err}
	}
	return nil
}
