package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the archiver uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver persists run summaries to S3 as timestamped JSON objects so runs
// stay auditable after the console output is gone.
type Archiver struct {
	client S3API
	bucket string
}

// NewArchiver wraps an S3 client.
func NewArchiver(client S3API, bucket string) *Archiver {
	return &Archiver{client: client, bucket: bucket}
}

// Save writes the summary and returns the object key.
func (a *Archiver) Save(ctx context.Context, s *Summary) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling summary: %w", err)
	}

	key := fmt.Sprintf("runs/%s/%s.json", s.StartedAt.Format("2006/01/02"), s.RunID)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("putting summary to S3: %w", err)
	}
	return key, nil
}
