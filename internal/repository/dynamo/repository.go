// Package dynamo implements the attendee repository on DynamoDB. The table
// is keyed by pass_id alone; email lookups scan with a filter expression,
// which is acceptable at conference scale (tens of thousands of items).
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/tngss/attendee-sync/internal/domain"
	"github.com/tngss/attendee-sync/internal/service/attendee"
)

// API is the subset of the DynamoDB client the repository uses.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Repository stores attendee records in a single DynamoDB table.
type Repository struct {
	client API
	table  string
}

// New wraps an existing DynamoDB client.
func New(client API, table string) *Repository {
	return &Repository{client: client, table: table}
}

// NewFromAWS builds a repository from ambient AWS configuration. An empty
// profile uses the default credential chain.
func NewFromAWS(ctx context.Context, table, region, profile string) (*Repository, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return New(dynamodb.NewFromConfig(cfg), table), nil
}

// Create inserts the record only if its pass_id is unused. The condition
// makes the migration path idempotent: a re-run hits the duplicate error
// instead of silently overwriting prior progress.
func (r *Repository) Create(ctx context.Context, a *domain.Attendee) error {
	av, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshaling attendee: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(pass_id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return attendee.ErrDuplicatePass
		}
		return fmt.Errorf("putting attendee %s: %w", a.PassID, err)
	}
	return nil
}

// Put writes the record unconditionally.
func (r *Repository) Put(ctx context.Context, a *domain.Attendee) error {
	av, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshaling attendee: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting attendee %s: %w", a.PassID, err)
	}
	return nil
}

// Delete removes a record by pass_id. DynamoDB treats deleting a missing key
// as success, which matches the repository contract.
func (r *Repository) Delete(ctx context.Context, passID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key:       passKey(passID),
	})
	if err != nil {
		return fmt.Errorf("deleting attendee %s: %w", passID, err)
	}
	return nil
}

// GetByPassID returns a single record or attendee.ErrNotFound.
func (r *Repository) GetByPassID(ctx context.Context, passID string) (*domain.Attendee, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key:       passKey(passID),
	})
	if err != nil {
		return nil, fmt.Errorf("getting attendee %s: %w", passID, err)
	}
	if len(out.Item) == 0 {
		return nil, attendee.ErrNotFound
	}

	var a domain.Attendee
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, fmt.Errorf("unmarshaling attendee %s: %w", passID, err)
	}
	return &a, nil
}

// FindByEmail scans for records with the given normalized email. The email
// attribute is stored normalized, so the filter is an exact match.
func (r *Repository) FindByEmail(ctx context.Context, email string) ([]domain.Attendee, error) {
	var matches []domain.Attendee
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(r.table),
			FilterExpression: aws.String("email = :email"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":email": &types.AttributeValueMemberS{Value: email},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning by email: %w", err)
		}
		page, err := unmarshalItems(out.Items)
		if err != nil {
			return nil, err
		}
		matches = append(matches, page...)
		if out.LastEvaluatedKey == nil {
			return matches, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Page returns up to limit records from the start of the table.
func (r *Repository) Page(ctx context.Context, limit int) ([]domain.Attendee, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.table),
		Limit:     aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("scanning page: %w", err)
	}
	return unmarshalItems(out.Items)
}

// All returns every record, following pagination to the end.
func (r *Repository) All(ctx context.Context) ([]domain.Attendee, error) {
	var all []domain.Attendee
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning table: %w", err)
		}
		page, err := unmarshalItems(out.Items)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if out.LastEvaluatedKey == nil {
			return all, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Count returns the total number of records without pulling item bodies.
func (r *Repository) Count(ctx context.Context) (int, error) {
	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.table),
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("counting items: %w", err)
		}
		total += int(out.Count)
		if out.LastEvaluatedKey == nil {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func passKey(passID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"pass_id": &types.AttributeValueMemberS{Value: passID},
	}
}

func unmarshalItems(items []map[string]types.AttributeValue) ([]domain.Attendee, error) {
	var out []domain.Attendee
	for _, item := range items {
		var a domain.Attendee
		if err := attributevalue.UnmarshalMap(item, &a); err != nil {
			return nil, fmt.Errorf("unmarshaling item: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}
